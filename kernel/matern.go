package kernel

import (
	"math"
)

// Exponential は等方的な指数カーネル
// パラメータは [amplitude, scale] で、scaleは長さスケールの2乗
//
//	k(x1, x2) = amplitude * exp(-u),  u = ||x1-x2|| / sqrt(scale)
//
// RBFより滑らかさの仮定が弱く、荒い関数のモデリングに向く
type Exponential struct {
	amplitude float64
	scale     float64
}

var _ Kernel = (*Exponential)(nil)

// NewExponential は新しい指数カーネルを作成する
func NewExponential(amplitude, scale float64) (*Exponential, error) {
	if err := validateParams(amplitude, scale); err != nil {
		return nil, err
	}
	return &Exponential{amplitude: amplitude, scale: scale}, nil
}

// NumParams はハイパーパラメータの個数を返す
func (k *Exponential) NumParams() int { return 2 }

// Params はハイパーパラメータ [amplitude, scale] のコピーを返す
func (k *Exponential) Params() []float64 {
	return []float64{k.amplitude, k.scale}
}

// Evaluate は2点間の共分散値を返す
func (k *Exponential) Evaluate(x1, x2 []float64) float64 {
	u := math.Sqrt(sqDist(x1, x2) / k.scale)
	return k.amplitude * math.Exp(-u)
}

// Gradient は [∂k/∂amplitude, ∂k/∂scale] を返す
func (k *Exponential) Gradient(x1, x2, dst []float64) []float64 {
	dst = prepDst(2, dst)
	u := math.Sqrt(sqDist(x1, x2) / k.scale)
	v := math.Exp(-u)
	dst[0] = v
	// du/dscale = -u/(2*scale) より
	dst[1] = k.amplitude * v * u / (2 * k.scale)
	return dst
}

// String はカーネル名を返す
func (k *Exponential) String() string { return "Exponential" }

// Matern32 は等方的なMatérn-3/2カーネル
// パラメータは [amplitude, scale] で、scaleは長さスケールの2乗
//
//	k(x1, x2) = amplitude * (1 + √3·u) * exp(-√3·u),  u = ||x1-x2|| / sqrt(scale)
type Matern32 struct {
	amplitude float64
	scale     float64
}

var _ Kernel = (*Matern32)(nil)

// NewMatern32 は新しいMatérn-3/2カーネルを作成する
func NewMatern32(amplitude, scale float64) (*Matern32, error) {
	if err := validateParams(amplitude, scale); err != nil {
		return nil, err
	}
	return &Matern32{amplitude: amplitude, scale: scale}, nil
}

// NumParams はハイパーパラメータの個数を返す
func (k *Matern32) NumParams() int { return 2 }

// Params はハイパーパラメータ [amplitude, scale] のコピーを返す
func (k *Matern32) Params() []float64 {
	return []float64{k.amplitude, k.scale}
}

// Evaluate は2点間の共分散値を返す
func (k *Matern32) Evaluate(x1, x2 []float64) float64 {
	t := math.Sqrt(3 * sqDist(x1, x2) / k.scale)
	return k.amplitude * (1 + t) * math.Exp(-t)
}

// Gradient は [∂k/∂amplitude, ∂k/∂scale] を返す
func (k *Matern32) Gradient(x1, x2, dst []float64) []float64 {
	dst = prepDst(2, dst)
	u2 := sqDist(x1, x2) / k.scale
	t := math.Sqrt(3 * u2)
	e := math.Exp(-t)
	dst[0] = (1 + t) * e
	// dk/du = -3·amplitude·u·exp(-√3·u), du/dscale = -u/(2·scale) より
	dst[1] = 3 * k.amplitude * u2 * e / (2 * k.scale)
	return dst
}

// String はカーネル名を返す
func (k *Matern32) String() string { return "Matern32" }

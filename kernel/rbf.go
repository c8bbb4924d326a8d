package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/gaussgo/pkg/errors"
)

// RBF は等方的な二乗指数カーネル（Radial Basis Function）
// パラメータは [amplitude, scale] の2つで、scaleは長さスケールの2乗
//
//	k(x1, x2) = amplitude * exp(-0.5 * ||x1-x2||² / scale)
type RBF struct {
	amplitude float64
	scale     float64
}

var _ Kernel = (*RBF)(nil)

// NewRBF は新しいRBFカーネルを作成する
// scaleが非正またはamplitudeが負の場合はValidationErrorを返す
// （元の定式化では検証なしに数値が発散するため、明示的に検証する）
func NewRBF(amplitude, scale float64) (*RBF, error) {
	if err := validateParams(amplitude, scale); err != nil {
		return nil, err
	}
	return &RBF{amplitude: amplitude, scale: scale}, nil
}

// NumParams はハイパーパラメータの個数を返す
func (k *RBF) NumParams() int { return 2 }

// Params はハイパーパラメータ [amplitude, scale] のコピーを返す
func (k *RBF) Params() []float64 {
	return []float64{k.amplitude, k.scale}
}

// Evaluate は2点間の共分散値を返す
func (k *RBF) Evaluate(x1, x2 []float64) float64 {
	chi2 := sqDist(x1, x2) / k.scale
	return k.amplitude * math.Exp(-0.5*chi2)
}

// Gradient は [∂k/∂amplitude, ∂k/∂scale] を返す
func (k *RBF) Gradient(x1, x2, dst []float64) []float64 {
	dst = prepDst(2, dst)
	e := -0.5 * sqDist(x1, x2) / k.scale
	v := math.Exp(e)
	dst[0] = v
	dst[1] = -e / k.scale * k.amplitude * v
	return dst
}

// String はカーネル名を返す
func (k *RBF) String() string { return "RBF" }

// sqDist は2点間のユークリッド距離の2乗を返す
// 長さの異なるスライスに対してはパニックする（gonumの慣習に従う）
func sqDist(x1, x2 []float64) float64 {
	d := floats.Distance(x1, x2, 2)
	return d * d
}

// validateParams は等方的カーネルに共通のパラメータ検証
func validateParams(amplitude, scale float64) error {
	if math.IsNaN(scale) || scale <= 0 {
		return errors.NewValidationError("scale", "must be positive", scale)
	}
	if math.IsNaN(amplitude) || amplitude < 0 {
		return errors.NewValidationError("amplitude", "must be non-negative", amplitude)
	}
	return nil
}

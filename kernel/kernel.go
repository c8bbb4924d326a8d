// Package kernel はガウス過程の共分散関数（カーネル）を提供します。
// 全てのカーネルはKernelインターフェースを実装し、2点間の共分散値と
// ハイパーパラメータに関する勾配を評価できます。
package kernel

// Kernel は共分散関数のインターフェース
// Evaluateは対称（Evaluate(x1,x2) == Evaluate(x2,x1)）かつ決定的でなければならない
type Kernel interface {
	// NumParams はハイパーパラメータの個数を返す（インスタンスごとに一定）
	NumParams() int

	// Evaluate は2つの入力点の間の共分散値を返す
	Evaluate(x1, x2 []float64) float64

	// Gradient は現在のパラメータにおける共分散値の偏微分を
	// パラメータごとに1つずつ返す。dstがnilの場合は新しいスライスを確保し、
	// 非nilで長さがNumParams()と異なる場合はパニックする
	Gradient(x1, x2, dst []float64) []float64
}

// Zero は退化した基底カーネル
// 常に共分散0とゼロ勾配を返す。デフォルト値としてのみ使用する
type Zero struct{}

// NumParams はハイパーパラメータの個数を返す
func (Zero) NumParams() int { return 0 }

// Evaluate は常に0を返す
func (Zero) Evaluate(x1, x2 []float64) float64 { return 0 }

// Gradient は空の勾配を返す
func (Zero) Gradient(x1, x2, dst []float64) []float64 {
	return prepDst(0, dst)
}

// prepDst はgonumのdst慣習に従って勾配の出力先スライスを準備する
func prepDst(n int, dst []float64) []float64 {
	if dst == nil {
		return make([]float64, n)
	}
	if len(dst) != n {
		panic("kernel: dst length mismatch")
	}
	return dst
}

package gp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gaussgo/core/parallel"
	"github.com/YuminosukeSato/gaussgo/kernel"
)

// 並列化の閾値（この行数以下では逐次処理を使用）
const parallelThreshold = 256

// buildCovariance は訓練入力とノイズ水準から対称共分散行列を構築する
//
// 上三角のみをカーネル評価し対称位置へ書き込むことで評価回数を半減させる。
// 対角は自己共分散にノイズの2乗を加えたもの。指定されたノイズ以外の
// ジッターは加えない（数値的な条件は呼び出し側とノイズベクトルの責任）
func buildCovariance(k kernel.Kernel, X *mat.Dense, yerr []float64) *mat.SymDense {
	n, _ := X.Dims()
	K := mat.NewSymDense(n, nil)

	// 行ごとに書き込み先が重ならないため、行単位の並列化は決定的
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			xi := X.RawRowView(i)
			for j := i + 1; j < n; j++ {
				K.SetSym(i, j, k.Evaluate(xi, X.RawRowView(j)))
			}
			K.SetSym(i, i, k.Evaluate(xi, xi)+yerr[i]*yerr[i])
		}
	})
	return K
}

// buildCovarianceGrad はハイパーパラメータごとの対称微分行列 dK/dθ_p を構築する
//
// 共分散行列と同じ上三角・対称書き込みの方法で、1組のペアにつき
// カーネル勾配を1回だけ評価する。コストはO(npars·n²)
func buildCovarianceGrad(k kernel.Kernel, X *mat.Dense) []*mat.SymDense {
	n, _ := X.Dims()
	npars := k.NumParams()

	dK := make([]*mat.SymDense, npars)
	for p := range dK {
		dK[p] = mat.NewSymDense(n, nil)
	}

	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		grad := make([]float64, npars)
		for i := start; i < end; i++ {
			xi := X.RawRowView(i)
			for j := i; j < n; j++ {
				k.Gradient(xi, X.RawRowView(j), grad)
				for p := 0; p < npars; p++ {
					dK[p].SetSym(i, j, grad[p])
				}
			}
		}
	})
	return dK
}

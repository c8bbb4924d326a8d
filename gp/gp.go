// Package gp はガウス過程回帰の中核を提供します。
//
// GaussianProcessは訓練入力と点ごとのノイズから共分散行列を構築・分解し、
// その分解を再利用して観測値の対数周辺尤度とハイパーパラメータ勾配を
// 評価します。新しい入力位置での事後予測とハイパーパラメータ探索は
// このパッケージの範囲外です
package gp

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gaussgo/core/model"
	"github.com/YuminosukeSato/gaussgo/kernel"
	"github.com/YuminosukeSato/gaussgo/pkg/errors"
	"github.com/YuminosukeSato/gaussgo/pkg/log"
)

// ln(2π)
const ln2pi = 1.8378770664093453

// 操作後のステータスコード（Infoで取得できる）
const (
	// StatusOK は直近の操作が成功したことを示す
	StatusOK = 0
	// StatusFailed は分解の失敗、未計算状態での呼び出し、
	// または次元不一致を示す
	StatusFailed = -1
	// StatusSolveFailed は保存された分解による求解の失敗を示す
	StatusSolveFailed = -2
)

// GaussianProcess はゼロ平均のガウス過程回帰モデル
//
// 1つのカーネルを保持し、Computeの成功後に共分散行列の分解と訓練入力を
// 保存する。保存された状態はLnLikelihoodとGradLnLikelihoodの両方で
// 再利用される。1つのインスタンスへの並行アクセスは外部で同期すること
// （内部ロックは持たない）
type GaussianProcess struct {
	model.BaseEstimator

	kernel kernel.Kernel
	inputs *mat.Dense // 直近の成功したComputeの訓練入力 (n×d)
	chol   mat.Cholesky
	info   int
}

var (
	_ model.Computer            = (*GaussianProcess)(nil)
	_ model.LikelihoodEvaluator = (*GaussianProcess)(nil)
)

// New は指定されたカーネルに束縛された新しいGaussianProcessを作成する
// kがnilの場合は退化したkernel.Zeroを使用する
func New(k kernel.Kernel) *GaussianProcess {
	if k == nil {
		k = kernel.Zero{}
	}
	return &GaussianProcess{kernel: k}
}

// Kernel は束縛されているカーネルを返す
func (g *GaussianProcess) Kernel() kernel.Kernel {
	return g.kernel
}

// Info は直近の操作のステータスコードを返す
func (g *GaussianProcess) Info() int {
	return g.info
}

// Computed は直近のComputeが成功したかどうかを返す
func (g *GaussianProcess) Computed() bool {
	return g.IsComputed()
}

// NSamples は保存されている訓練サンプル数を返す（未計算なら0）
func (g *GaussianProcess) NSamples() int {
	if g.inputs == nil {
		return 0
	}
	n, _ := g.inputs.Dims()
	return n
}

// Compute は共分散行列を構築し対称分解を行う
//
// パラメータ:
//   - X: 訓練入力 (n×d 行列、行がサンプル)
//   - yerr: サンプルごとのノイズ標準偏差 (長さn)
//
// 成功時はステータス0で分解と訓練入力を保存する。検証エラーと分解の失敗は
// いずれもステータス-1で、計算済み状態にはならない。失敗の種類に
// かかわらず以前の計算結果は破棄される（再Computeのみが回復手段）
func (g *GaussianProcess) Compute(X mat.Matrix, yerr []float64) (err error) {
	defer errors.Recover(&err, "GaussianProcess.Compute")

	// 新しい計算の開始。検証失敗を含むあらゆる失敗で未計算状態に戻し、
	// 以前の計算結果は復元しない（回復手段は再Computeのみ）
	g.Reset()
	g.inputs = nil
	g.info = StatusFailed

	n, d := X.Dims()
	if n == 0 || d == 0 {
		return errors.NewModelError("GaussianProcess.Compute", "empty data", errors.ErrEmptyData)
	}
	if len(yerr) != n {
		return errors.NewDimensionError("GaussianProcess.Compute", n, len(yerr), 0)
	}
	// NaN/Infのノイズは分解を通過して尤度を静かに汚染するため先に弾く
	if err := errors.CheckNumericalStability("GaussianProcess.Compute", yerr); err != nil {
		return err
	}

	start := time.Now()
	inputs := mat.DenseCopyOf(X)
	K := buildCovariance(g.kernel, inputs, yerr)

	logger := log.GetLoggerWithName("gaussgo.gp")
	if ok := g.chol.Factorize(K); !ok {
		logger.Warn("Covariance factorization failed",
			log.OperationKey, log.OperationCompute,
			log.SamplesKey, n,
			log.ErrorCodeKey, log.ErrorFactorizationFailure,
			log.ErrorTypeKey, "FactorizationError",
		)
		return errors.NewFactorizationError("GaussianProcess.Compute", n, "matrix is not positive definite")
	}

	g.inputs = inputs
	g.info = StatusOK
	g.SetComputed()

	logger.Debug("Covariance computed",
		log.OperationKey, log.OperationCompute,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.ParamsKey, g.kernel.NumParams(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// LnLikelihood は観測値yの対数周辺尤度を返す
//
//	lnL = -0.5 * (yᵀ·α + logdet(K) + n·ln(2π)),  α = K⁻¹y
//
// logdetは分解の対角スケーリング項の対数和として計算する（大きなnでの
// オーバーフローを避けるため、行列式を直接は計算しない）。
// 未計算状態・次元不一致・求解失敗の場合は、負の無限大の番兵値と
// 理由を示すエラーの両方を返す
func (g *GaussianProcess) LnLikelihood(y []float64) (float64, error) {
	if !g.IsComputed() {
		return math.Inf(-1), errors.NewNotFittedError("GaussianProcess", "LnLikelihood")
	}
	n, _ := g.inputs.Dims()
	if len(y) != n {
		return math.Inf(-1), errors.NewDimensionError("GaussianProcess.LnLikelihood", n, len(y), 0)
	}

	yVec := mat.NewVecDense(n, y)
	var alpha mat.VecDense
	if err := g.chol.SolveVecTo(&alpha, yVec); err != nil {
		return math.Inf(-1), errors.NewFactorizationError("GaussianProcess.LnLikelihood", n, err.Error())
	}

	logdet := g.chol.LogDet()
	lnL := -0.5 * (mat.Dot(yVec, &alpha) + logdet + float64(n)*ln2pi)

	log.GetLoggerWithName("gaussgo.gp").Debug("Likelihood evaluated",
		log.OperationKey, log.OperationLnLikelihood,
		log.SamplesKey, n,
		log.LikelihoodKey, lnL,
		log.LogDetKey, logdet,
	)
	return lnL, nil
}

// GradLnLikelihood は対数周辺尤度のハイパーパラメータ勾配を返す
//
// パラメータkごとに
//
//	grad[k] = -0.5 * (tr(K⁻¹·dK_k) - αᵀ·dK_k·α)
//
// を計算する。トレース項は保存された分解によるn×n求解として評価する
// （明示的な逆行列は作らない）。コストはO(npars·n³)で本システムの
// 支配的コスト。失敗時はステータスコードを設定し（-1: 未計算または
// 次元不一致、-2: 求解失敗）、未定義の値ではなくnilを返す
func (g *GaussianProcess) GradLnLikelihood(y []float64) (grad []float64, err error) {
	defer errors.Recover(&err, "GaussianProcess.GradLnLikelihood")

	if !g.IsComputed() {
		g.info = StatusFailed
		return nil, errors.NewNotFittedError("GaussianProcess", "GradLnLikelihood")
	}
	n, _ := g.inputs.Dims()
	if len(y) != n {
		g.info = StatusFailed
		return nil, errors.NewDimensionError("GaussianProcess.GradLnLikelihood", n, len(y), 0)
	}

	yVec := mat.NewVecDense(n, y)
	var alpha mat.VecDense
	if solveErr := g.chol.SolveVecTo(&alpha, yVec); solveErr != nil {
		g.info = StatusSolveFailed
		return nil, errors.NewFactorizationError("GaussianProcess.GradLnLikelihood", n, solveErr.Error())
	}

	npars := g.kernel.NumParams()
	grad = make([]float64, npars)
	if npars == 0 {
		g.info = StatusOK
		return grad, nil
	}
	logger := log.GetLoggerWithName("gaussgo.gp")

	dK := buildCovarianceGrad(g.kernel, g.inputs)

	var kinvDK mat.Dense
	for p := 0; p < npars; p++ {
		if solveErr := g.chol.SolveTo(&kinvDK, dK[p]); solveErr != nil {
			g.info = StatusSolveFailed
			return nil, errors.NewFactorizationError("GaussianProcess.GradLnLikelihood", n, solveErr.Error())
		}
		grad[p] = -0.5 * (mat.Trace(&kinvDK) - mat.Inner(&alpha, dK[p], &alpha))
	}

	g.info = StatusOK
	logger.Debug("Likelihood gradient evaluated",
		log.OperationKey, log.OperationGradLnLikelihood,
		log.SamplesKey, n,
		log.ParamsKey, npars,
		log.StatusKey, g.info,
	)
	return grad, nil
}

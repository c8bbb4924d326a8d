package model

import "gonum.org/v1/gonum/mat"

// Computer は訓練データから内部状態を構築できる推定器のインターフェース
type Computer interface {
	// Compute は訓練入力とノイズ水準から共分散行列を構築・分解する
	Compute(X mat.Matrix, yerr []float64) error
	// Computed は直近のComputeが成功したかどうかを返す
	Computed() bool
}

// LikelihoodEvaluator は観測値の周辺尤度を評価できるモデルのインターフェース
type LikelihoodEvaluator interface {
	// LnLikelihood は観測値yの対数周辺尤度を返す
	LnLikelihood(y []float64) (float64, error)
	// GradLnLikelihood は対数周辺尤度のハイパーパラメータ勾配を返す
	GradLnLikelihood(y []float64) ([]float64, error)
}

// Transformer はデータ変換を行う前処理器のインターフェース
type Transformer interface {
	// Fit は訓練データから変換に必要な統計量を計算する
	Fit(X mat.Matrix) error
	// Transform は学習済みの統計量でデータを変換する
	Transform(X mat.Matrix) (*mat.Dense, error)
	// InverseTransform は変換を元に戻す
	InverseTransform(X mat.Matrix) (*mat.Dense, error)
}

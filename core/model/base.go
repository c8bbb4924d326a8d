package model

// EstimatorState は推定器の計算状態を表す
type EstimatorState int

const (
	// NotComputed は共分散行列がまだ分解されていない状態
	NotComputed EstimatorState = iota
	// Computed は分解が成功し、尤度計算が可能な状態
	Computed
)

// String はEstimatorStateの文字列表現を返す
func (s EstimatorState) String() string {
	switch s {
	case Computed:
		return "computed"
	default:
		return "not computed"
	}
}

// BaseEstimator は状態を持つ全ての推定器の基底となる構造体
// GaussianProcessやStandardScalerに埋め込んで使用する
type BaseEstimator struct {
	state EstimatorState
}

// IsComputed は推定器が計算済みかどうかを返す
func (e *BaseEstimator) IsComputed() bool {
	return e.state == Computed
}

// SetComputed は推定器を計算済み状態に設定する
func (e *BaseEstimator) SetComputed() {
	e.state = Computed
}

// Reset は推定器を初期状態に戻す
// Computeが失敗した場合にも呼ばれ、部分的に構築された状態を無効化する
func (e *BaseEstimator) Reset() {
	e.state = NotComputed
}

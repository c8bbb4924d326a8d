package errors

import (
	"math"
)

// CheckNumericalStability はスライスにNaNまたはInfが含まれていないか検査し、
// 検出した場合はNumericalInstabilityErrorを返します。
// ノイズベクトルのように分解を静かに汚染し得る入力の事前検査に使用します。
func CheckNumericalStability(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values)
		}
	}
	return nil
}

// CheckScalar は単一のスカラー値を検査します。
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value})
	}
	return nil
}

// CheckMatrix は行列の全要素を検査します。
// 大きな行列でエラーメッセージが際限なく膨らまないよう、
// 問題のある値の収集は最初の該当行で打ち切ります。
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	var bad []float64

	for i := 0; i < rows && len(bad) == 0; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				bad = append(bad, v)
				if len(bad) >= 10 {
					break
				}
			}
		}
	}

	if len(bad) > 0 {
		return NewNumericalInstabilityError(operation, bad)
	}
	return nil
}

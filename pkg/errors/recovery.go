package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は回復されたパニックから作られたエラーです。
// パニック時の値とスタックトレースを保持します。
type PanicError struct {
	// PanicValue はpanic()に渡された元の値
	PanicValue interface{}

	// StackTrace はパニック発生時のスタックトレース
	StackTrace string

	// Operation はパニックを回復した操作の名前
	Operation string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap は常にnilを返します（PanicErrorは他のエラーをラップしない）。
func (e *PanicError) Unwrap() error {
	return nil
}

// String はスタックトレースを含む詳細表現を返します。
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError は操作名とパニック値から新しいPanicErrorを作成します。
// スタックトレースは呼び出し時点で取得されます。
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover はdeferで使用し、パニックをエラーに変換します。
// 推定器の公開エントリポイントに置くことで、利用者が実装したKernelが
// ペアワイズ評価ループの内部でパニックしてもプロセスを落とさずに済みます。
//
// 使用例:
//
//	func (g *GaussianProcess) Compute(...) (err error) {
//	    defer errors.Recover(&err, "GaussianProcess.Compute")
//	    ...
//	}
//
// パニックがなければerrには触れません。既にエラーが設定されている状態で
// パニックした場合は、元のエラーを保持したままパニック情報でラップします。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}

	if *err != nil {
		*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute はfnを実行し、パニックが起きた場合はPanicErrorとして返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}

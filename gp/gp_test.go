package gp

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gaussgo/kernel"
	"github.com/YuminosukeSato/gaussgo/pkg/errors"
	"github.com/YuminosukeSato/gaussgo/pkg/log"
)

func mustRBF(t *testing.T, amplitude, scale float64) *kernel.RBF {
	t.Helper()
	k, err := kernel.NewRBF(amplitude, scale)
	if err != nil {
		t.Fatalf("NewRBF(%v, %v) error = %v", amplitude, scale, err)
	}
	return k
}

func TestComputeThreePointScenario(t *testing.T) {
	// 1次元の訓練点 [0, 1, 2]、ノイズ0.1、RBF[amplitude=1, scale=1]
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	yerr := []float64{0.1, 0.1, 0.1}

	g := New(mustRBF(t, 1.0, 1.0))
	if g.Computed() {
		t.Fatal("Computed() should be false before Compute")
	}

	if err := g.Compute(X, yerr); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if g.Info() != StatusOK {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusOK)
	}
	if !g.Computed() {
		t.Error("Computed() should be true after successful Compute")
	}
	if g.NSamples() != 3 {
		t.Errorf("NSamples() = %d, want 3", g.NSamples())
	}

	// y = 0 のとき二次形式の項は消え、lnL = -0.5*(logdet + n·ln 2π)。
	// 参照値はK[i][j] = exp(-0.5(i-j)²) + (i==j ? 0.01 : 0) をLU分解した
	// 対数行列式から独立に計算する
	K := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := math.Exp(-0.5 * float64((i-j)*(i-j)))
			if i == j {
				v += 0.01
			}
			K.Set(i, j, v)
		}
	}
	logdet, sign := mat.LogDet(K)
	if sign <= 0 {
		t.Fatalf("reference covariance should have positive determinant, sign = %v", sign)
	}
	want := -0.5 * (logdet + 3*math.Log(2*math.Pi))

	got, err := g.LnLikelihood([]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("LnLikelihood() error = %v", err)
	}
	if math.IsInf(got, 0) || got >= 0 {
		t.Fatalf("LnLikelihood() = %v, want a finite negative number", got)
	}
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("LnLikelihood() = %v, want %v", got, want)
	}
}

func TestLnLikelihoodSinglePointClosedForm(t *testing.T) {
	tests := []struct {
		name      string
		amplitude float64
		scale     float64
		sigma     float64
		y         float64
	}{
		{name: "unit kernel", amplitude: 1.0, scale: 1.0, sigma: 0.1, y: 0.5},
		{name: "large amplitude", amplitude: 2.5, scale: 0.7, sigma: 0.3, y: -1.2},
		{name: "zero target", amplitude: 1.0, scale: 2.0, sigma: 0.2, y: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(mustRBF(t, tt.amplitude, tt.scale))
			X := mat.NewDense(1, 1, []float64{0})
			if err := g.Compute(X, []float64{tt.sigma}); err != nil {
				t.Fatalf("Compute() error = %v", err)
			}

			// 1点の場合 K = amplitude + σ² となり、尤度は閉形式
			K := tt.amplitude + tt.sigma*tt.sigma
			want := -0.5 * (tt.y*tt.y/K + math.Log(K) + math.Log(2*math.Pi))

			got, err := g.LnLikelihood([]float64{tt.y})
			if err != nil {
				t.Fatalf("LnLikelihood() error = %v", err)
			}
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("LnLikelihood() = %v, want %v", got, want)
			}
		})
	}
}

func TestCovarianceMatrixValues(t *testing.T) {
	k := mustRBF(t, 1.5, 2.0)
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, -1,
		0.5, 2,
		-2, 0.25,
	})
	yerr := []float64{0.1, 0.2, 0.3, 0.4}

	K := buildCovariance(k, X, yerr)

	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := k.Evaluate(X.RawRowView(i), X.RawRowView(j))
			if i == j {
				want += yerr[i] * yerr[i]
			}
			if math.Abs(K.At(i, j)-want) > 1e-14 {
				t.Errorf("K[%d][%d] = %v, want %v", i, j, K.At(i, j), want)
			}
			if K.At(i, j) != K.At(j, i) {
				t.Errorf("K[%d][%d] != K[%d][%d]", i, j, j, i)
			}
		}
	}
}

func TestUncomputedStateGuards(t *testing.T) {
	g := New(mustRBF(t, 1.0, 1.0))

	// 未計算状態では尤度は負の無限大の番兵値を返す（パニックしない）
	lnL, err := g.LnLikelihood([]float64{1, 2, 3})
	if !math.IsInf(lnL, -1) {
		t.Errorf("LnLikelihood() = %v, want -Inf", lnL)
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("error should be castable to *NotFittedError, got %v", err)
	}

	grad, err := g.GradLnLikelihood([]float64{1, 2, 3})
	if grad != nil {
		t.Errorf("GradLnLikelihood() = %v, want nil", grad)
	}
	if err == nil {
		t.Error("GradLnLikelihood() should return an error before Compute")
	}
	if g.Info() != StatusFailed {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusFailed)
	}
}

func TestDimensionMismatchGuards(t *testing.T) {
	g := New(mustRBF(t, 1.0, 1.0))
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	if err := g.Compute(X, []float64{0.1, 0.1, 0.1}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	lnL, err := g.LnLikelihood([]float64{1, 2}) // 長さ2 ≠ 3
	if !math.IsInf(lnL, -1) {
		t.Errorf("LnLikelihood() = %v, want -Inf", lnL)
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("error should be castable to *DimensionError, got %v", err)
	}

	grad, err := g.GradLnLikelihood([]float64{1, 2})
	if grad != nil || err == nil {
		t.Errorf("GradLnLikelihood() = (%v, %v), want (nil, error)", grad, err)
	}
	if g.Info() != StatusFailed {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusFailed)
	}

	// Computeのノイズベクトル長の不一致。検証で失敗した再Computeも
	// 以前の計算結果を破棄し、未計算状態に戻す
	if err := g.Compute(X, []float64{0.1, 0.1}); err == nil {
		t.Error("Compute() with mismatched yerr length should return an error")
	}
	if g.Computed() {
		t.Error("Computed() should be false after a failed re-Compute")
	}
	if g.Info() != StatusFailed {
		t.Errorf("Info() = %d, want %d after a failed re-Compute", g.Info(), StatusFailed)
	}
	if lnL, _ := g.LnLikelihood([]float64{0, 0, 0}); !math.IsInf(lnL, -1) {
		t.Errorf("LnLikelihood() after failed re-Compute = %v, want -Inf", lnL)
	}
}

func TestComputeRejectsNonFiniteNoise(t *testing.T) {
	g := New(mustRBF(t, 1.0, 1.0))
	X := mat.NewDense(2, 1, []float64{0, 1})

	// 一度成功させてから不正なノイズで再Computeし、古い状態が
	// 残らないことを確認する
	if err := g.Compute(X, []float64{0.1, 0.1}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	err := g.Compute(X, []float64{0.1, math.NaN()})
	var instErr *errors.NumericalInstabilityError
	if !errors.As(err, &instErr) {
		t.Errorf("error should be castable to *NumericalInstabilityError, got %v", err)
	}
	if g.Computed() {
		t.Error("Computed() should be false after rejected input")
	}
	if g.Info() != StatusFailed {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusFailed)
	}
}

func TestComputeIdempotence(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	yerr := []float64{0.1, 0.1, 0.1}
	y := []float64{0.3, -0.2, 0.8}

	g := New(mustRBF(t, 1.0, 1.0))
	if err := g.Compute(X, yerr); err != nil {
		t.Fatalf("first Compute() error = %v", err)
	}
	first, err := g.LnLikelihood(y)
	if err != nil {
		t.Fatalf("LnLikelihood() error = %v", err)
	}

	// 同じ入力での再計算は同じステータスと同じ尤度を与える
	if err := g.Compute(X, yerr); err != nil {
		t.Fatalf("second Compute() error = %v", err)
	}
	second, err := g.LnLikelihood(y)
	if err != nil {
		t.Fatalf("LnLikelihood() error = %v", err)
	}
	if first != second {
		t.Errorf("LnLikelihood after recompute = %v, want %v", second, first)
	}
}

func TestComputeFactorizationFailure(t *testing.T) {
	// ノイズ0で同一の点を重ねると共分散行列は特異になる
	X := mat.NewDense(2, 1, []float64{1, 1})
	yerr := []float64{0, 0}

	g := New(mustRBF(t, 1.0, 1.0))
	err := g.Compute(X, yerr)
	if err == nil {
		t.Fatal("Compute() on a singular covariance should return an error")
	}
	var facErr *errors.FactorizationError
	if !errors.As(err, &facErr) {
		t.Errorf("error should be castable to *FactorizationError, got %v", err)
	}
	if g.Computed() {
		t.Error("Computed() should be false after factorization failure")
	}
	if g.Info() != StatusFailed {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusFailed)
	}

	// 回復手段は再Computeのみ
	if err := g.Compute(X, []float64{0.5, 0.5}); err != nil {
		t.Fatalf("recovery Compute() error = %v", err)
	}
	if !g.Computed() {
		t.Error("Computed() should be true after recovery Compute")
	}
}

func TestGradLnLikelihoodSolveFailureStatus(t *testing.T) {
	// 振幅0のカーネルでは共分散は対角のノイズのみになる。極端に
	// 不揃いなノイズ (1 と 1e-9) は分解には成功するが条件数が
	// 約1e18となり、保存された分解による求解が失敗を報告する
	g := New(mustRBF(t, 0.0, 1.0))
	X := mat.NewDense(2, 1, []float64{0, 1})
	if err := g.Compute(X, []float64{1, 1e-9}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if g.Info() != StatusOK {
		t.Fatalf("Info() = %d, want %d after Compute", g.Info(), StatusOK)
	}

	grad, err := g.GradLnLikelihood([]float64{0.1, 0.2})
	if grad != nil {
		t.Errorf("GradLnLikelihood() = %v, want nil on solve failure", grad)
	}
	var facErr *errors.FactorizationError
	if !errors.As(err, &facErr) {
		t.Errorf("error should be castable to *FactorizationError, got %v", err)
	}
	if g.Info() != StatusSolveFailed {
		t.Errorf("Info() = %d, want %d", g.Info(), StatusSolveFailed)
	}

	// 分解自体は保持されるため計算済み状態のまま。尤度も同じ求解に
	// 依存するので番兵値とエラーを返す
	if !g.Computed() {
		t.Error("Computed() should remain true after a solve failure")
	}
	if lnL, err := g.LnLikelihood([]float64{0.1, 0.2}); !math.IsInf(lnL, -1) || err == nil {
		t.Errorf("LnLikelihood() = (%v, %v), want (-Inf, error)", lnL, err)
	}
}

// TestGradLnLikelihoodFiniteDifference は解析勾配を尤度の中心差分と比較する
func TestGradLnLikelihoodFiniteDifference(t *testing.T) {
	constructors := map[string]func(a, s float64) (kernel.Kernel, error){
		"RBF":         func(a, s float64) (kernel.Kernel, error) { return kernel.NewRBF(a, s) },
		"Exponential": func(a, s float64) (kernel.Kernel, error) { return kernel.NewExponential(a, s) },
		"Matern32":    func(a, s float64) (kernel.Kernel, error) { return kernel.NewMatern32(a, s) },
	}

	tests := []struct {
		name      string
		amplitude float64
		scale     float64
		X         *mat.Dense
		yerr      []float64
		y         []float64
	}{
		{
			name:      "five points 1d",
			amplitude: 1.0,
			scale:     1.0,
			X:         mat.NewDense(5, 1, []float64{-2, -0.5, 0, 1.3, 2.8}),
			yerr:      []float64{0.2, 0.2, 0.2, 0.2, 0.2},
			y:         []float64{0.3, -0.6, 0.1, 1.4, -0.8},
		},
		{
			name:      "four points 2d",
			amplitude: 1.8,
			scale:     2.5,
			X: mat.NewDense(4, 2, []float64{
				0, 0,
				1, -1,
				-0.5, 0.7,
				2, 1.5,
			}),
			yerr: []float64{0.3, 0.25, 0.35, 0.3},
			y:    []float64{1.0, -0.4, 0.2, 0.9},
		},
	}

	settings := &fd.Settings{Formula: fd.Central}

	for kernelName, newKernel := range constructors {
		for _, tt := range tests {
			t.Run(kernelName+"/"+tt.name, func(t *testing.T) {
				k, err := newKernel(tt.amplitude, tt.scale)
				if err != nil {
					t.Fatalf("constructor error: %v", err)
				}
				g := New(k)
				if err := g.Compute(tt.X, tt.yerr); err != nil {
					t.Fatalf("Compute() error = %v", err)
				}

				got, err := g.GradLnLikelihood(tt.y)
				if err != nil {
					t.Fatalf("GradLnLikelihood() error = %v", err)
				}
				if g.Info() != StatusOK {
					t.Fatalf("Info() = %d, want %d", g.Info(), StatusOK)
				}

				// ハイパーパラメータの関数として尤度を評価する
				f := func(pars []float64) float64 {
					kp, err := newKernel(pars[0], pars[1])
					if err != nil {
						t.Fatalf("constructor error inside fd: %v", err)
					}
					gp := New(kp)
					if err := gp.Compute(tt.X, tt.yerr); err != nil {
						t.Fatalf("Compute inside fd: %v", err)
					}
					lnL, err := gp.LnLikelihood(tt.y)
					if err != nil {
						t.Fatalf("LnLikelihood inside fd: %v", err)
					}
					return lnL
				}
				want := fd.Gradient(nil, f, []float64{tt.amplitude, tt.scale}, settings)

				for p := range got {
					diff := math.Abs(got[p] - want[p])
					scale := math.Max(1, math.Abs(want[p]))
					if diff/scale > 1e-4 {
						t.Errorf("grad[%d] = %v, finite difference = %v", p, got[p], want[p])
					}
				}
			})
		}
	}
}

func TestZeroKernelDefault(t *testing.T) {
	// nilカーネルは退化したゼロカーネルとして扱われ、
	// 共分散は対角のノイズのみになる
	g := New(nil)
	X := mat.NewDense(2, 1, []float64{0, 1})
	sigma := 0.5
	if err := g.Compute(X, []float64{sigma, sigma}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	y := []float64{0.3, -0.4}
	K := sigma * sigma
	want := 0.0
	for _, v := range y {
		want += -0.5 * (v*v/K + math.Log(K) + math.Log(2*math.Pi))
	}

	got, err := g.LnLikelihood(y)
	if err != nil {
		t.Fatalf("LnLikelihood() error = %v", err)
	}
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LnLikelihood() = %v, want %v", got, want)
	}

	grad, err := g.GradLnLikelihood(y)
	if err != nil {
		t.Fatalf("GradLnLikelihood() error = %v", err)
	}
	if len(grad) != 0 {
		t.Errorf("GradLnLikelihood() length = %d, want 0", len(grad))
	}
}

func TestLikelihoodOperationLogging(t *testing.T) {
	provider, buffer := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetLoggerProvider(provider)
	defer log.SetLoggerProvider(log.NewZerologProvider(nil, log.LevelWarn))

	g := New(mustRBF(t, 1.0, 1.0))
	X := mat.NewDense(3, 1, []float64{0.0, 1.0, 2.0})
	if err := g.Compute(X, []float64{0.1, 0.1, 0.1}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	y := []float64{0.5, -0.2, 0.8}
	if _, err := g.LnLikelihood(y); err != nil {
		t.Fatalf("LnLikelihood() error = %v", err)
	}
	if _, err := g.GradLnLikelihood(y); err != nil {
		t.Fatalf("GradLnLikelihood() error = %v", err)
	}

	out := buffer.String()
	for _, want := range []string{
		log.OperationLnLikelihood,
		log.OperationGradLnLikelihood,
		log.LikelihoodKey,
		log.LogDetKey,
		log.StatusKey,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

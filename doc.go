// Package gaussgo provides Gaussian Process regression for Go, built on
// gonum's dense linear algebra.
//
// GaussGo is a small, numerically careful inference core: it assembles the
// training covariance matrix from a parametric kernel and per-point noise,
// factors it once, and reuses the factorization to evaluate the log
// marginal likelihood of observed targets and its gradient with respect to
// the kernel hyperparameters.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gaussgo/gp"
//	    "github.com/YuminosukeSato/gaussgo/kernel"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    k, err := kernel.NewRBF(1.0, 1.0)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    X := mat.NewDense(3, 1, []float64{0, 1, 2})
//	    yerr := []float64{0.1, 0.1, 0.1}
//
//	    g := gp.New(k)
//	    if err := g.Compute(X, yerr); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    lnL, err := g.LnLikelihood([]float64{0.2, -0.1, 0.4})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("ln likelihood:", lnL)
//	}
//
// # Packages
//
//   - kernel: covariance functions (RBF, Exponential, Matern32) behind a
//     shared interface
//   - gp: the GaussianProcess estimator (Compute, LnLikelihood,
//     GradLnLikelihood)
//   - preprocessing: input/target standardization
//   - core/model, core/parallel: estimator lifecycle state and CPU
//     parallelization shared by the packages above
//   - pkg/errors, pkg/log: structured error handling and logging
//
// Posterior prediction and hyperparameter optimization are intentionally
// not part of this core; callers drive the likelihood and its gradient
// with their own search strategy.
package gaussgo

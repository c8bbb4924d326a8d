// Package log defines standard attribute keys for Gaussian Process operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in GaussGo. Using these standard keys enables better
// log analysis, monitoring, and debugging of numerical workflows.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
// These attributes identify the model type, instance, and operation being performed.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "GaussianProcess", "StandardScaler"
	ModelNameKey = "model.name"

	// KernelKey identifies the covariance function in use.
	// Examples: "RBF", "Matern32", "Exponential", "Zero"
	KernelKey = "model.kernel"

	// OperationKey specifies the operation being performed.
	// Standard values: "compute", "lnlikelihood", "gradlnlikelihood",
	// "fit", "transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "gp", "kernel", "preprocessing"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of training samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the input dimensionality (columns).
	FeaturesKey = "data.features"

	// ParamsKey indicates the number of kernel hyperparameters.
	ParamsKey = "model.num_params"
)

// Numerical Results
const (
	// LikelihoodKey records a computed log marginal likelihood value.
	LikelihoodKey = "result.lnlikelihood"

	// LogDetKey records the log-determinant of the covariance matrix.
	LogDetKey = "result.logdet"

	// StatusKey records the integer status code after an operation
	// (0 success, -1 dimension/factorization failure, -2 solve failure).
	StatusKey = "result.status"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_COMPUTED", "FACTORIZATION_FAILURE"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "FactorizationError", "DimensionError"
	ErrorTypeKey = "error.type"
)

// Standard attribute value constants for common operations.
const (
	OperationCompute          = "compute"
	OperationLnLikelihood     = "lnlikelihood"
	OperationGradLnLikelihood = "gradlnlikelihood"
	OperationFit              = "fit"
	OperationTransform        = "transform"
	OperationInverseTransform = "inverse_transform"

	// Standard error codes
	ErrorNotComputed          = "NOT_COMPUTED"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrorEmptyData            = "EMPTY_DATA"
	ErrorInvalidInput         = "INVALID_INPUT"
	ErrorFactorizationFailure = "FACTORIZATION_FAILURE"
)

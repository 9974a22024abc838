package convert

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default configuration values, matching the conventions of the source
// course material and the browser runtime kernel.
const (
	DefaultInputSuffix       = ".Rmd"
	DefaultOutputSuffix      = ".ipynb"
	DefaultKernelName        = "python"
	DefaultKernelDisplayName = "Python (Pyodide)"
	DefaultLanguage          = "python"
	DefaultStoragePrefix     = "nblite"
)

// Config controls document conversion and directory orchestration.
type Config struct {
	// InputSuffix selects source files during directory walks.
	InputSuffix string
	// OutputSuffix names emitted notebook files.
	OutputSuffix string
	// KernelName is recorded in each output notebook's kernelspec.
	KernelName string
	// KernelDisplayName is the kernelspec's human-readable name.
	KernelDisplayName string
	// Language feeds the manifest storage key.
	Language string
	// StoragePrefix namespaces the manifest storage key.
	StoragePrefix string
	// ContinueOnError keeps a directory run going past a failing document
	// instead of aborting on the first failure. Off by default: a silent
	// partial bundle is worse than a loud failed run.
	ContinueOnError bool
}

// WithDefaults fills unset fields with package defaults.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.InputSuffix) == "" {
		c.InputSuffix = DefaultInputSuffix
	}
	if strings.TrimSpace(c.OutputSuffix) == "" {
		c.OutputSuffix = DefaultOutputSuffix
	}
	if strings.TrimSpace(c.KernelName) == "" {
		c.KernelName = DefaultKernelName
	}
	if strings.TrimSpace(c.KernelDisplayName) == "" {
		c.KernelDisplayName = DefaultKernelDisplayName
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = DefaultLanguage
	}
	if strings.TrimSpace(c.StoragePrefix) == "" {
		c.StoragePrefix = DefaultStoragePrefix
	}
	return c
}

// Validate ensures the configuration is internally consistent.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.InputSuffix, validation.Required, validation.By(suffixRule("input_suffix"))),
		validation.Field(&c.OutputSuffix, validation.Required, validation.By(suffixRule("output_suffix"))),
		validation.Field(&c.KernelName, validation.Required),
		validation.Field(&c.KernelDisplayName, validation.Required),
		validation.Field(&c.Language, validation.Required),
	)
}

func suffixRule(field string) validation.RuleFunc {
	return func(value any) error {
		suffix, _ := value.(string)
		if !strings.HasPrefix(suffix, ".") || len(suffix) < 2 {
			return validation.NewError(
				"nblite.convert."+field+"_invalid",
				field+" must be a file extension starting with '.'")
		}
		return nil
	}
}

package convertcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const convertDirectoryMessageType = "nblite.convert.directory"

// ConvertDirectoryCommand triggers a conversion run over every matching
// document under InputDir, writing notebooks and the runtime manifest into
// OutputDir.
type ConvertDirectoryCommand struct {
	// InputDir selects the directory containing source documents.
	InputDir string `json:"input_dir"`
	// OutputDir receives the converted notebooks and the manifest.
	OutputDir string `json:"output_dir"`
}

// Type implements command.Message.
func (ConvertDirectoryCommand) Type() string { return convertDirectoryMessageType }

// Validate ensures both directories are present before handlers execute.
func (cmd ConvertDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.InputDir, validation.Required, validation.By(nonBlank(
			"nblite.convert.directory.input_dir_required", "input_dir is required"))),
		validation.Field(&cmd.OutputDir, validation.Required, validation.By(nonBlank(
			"nblite.convert.directory.output_dir_required", "output_dir is required"))),
	)
}

func nonBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

package convertcmd

import "testing"

func TestConvertDirectoryCommandType(t *testing.T) {
	if got := (ConvertDirectoryCommand{}).Type(); got != "nblite.convert.directory" {
		t.Fatalf("unexpected message type %q", got)
	}
}

func TestConvertDirectoryCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     ConvertDirectoryCommand
		wantErr bool
	}{
		{"valid", ConvertDirectoryCommand{InputDir: "in", OutputDir: "out"}, false},
		{"missing input", ConvertDirectoryCommand{OutputDir: "out"}, true},
		{"missing output", ConvertDirectoryCommand{InputDir: "in"}, true},
		{"blank input", ConvertDirectoryCommand{InputDir: "   ", OutputDir: "out"}, true},
		{"blank output", ConvertDirectoryCommand{InputDir: "in", OutputDir: "\t"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %#v", tc.cmd)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", Path: "/tmp/data.db"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", Path: "/tmp/data.db"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty path returns ErrPathEmpty",
			config:  Config{Backend: BackendSQLite, Path: ""},
			wantErr: ErrPathEmpty,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: BackendSQLite, Path: "/tmp/data.db"},
			wantErr: nil,
		},
		{
			name:    "valid memory config",
			config:  Config{Backend: BackendMemory, Path: "users"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

package encryption

import (
	"testing"

	"jt-go/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		want    string
		wantErr bool
	}{
		{typ: "", want: "*encryption.AgeEncryptor"},
		{typ: "age", want: "*encryption.AgeEncryptor"},
		{typ: "test", want: "*encryption.TestEncryptor"},
		{typ: "none", want: "encryption.NoneEncryptor"},
		{typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown type")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			var got string
			switch enc.(type) {
			case *AgeEncryptor:
				got = "*encryption.AgeEncryptor"
			case *TestEncryptor:
				got = "*encryption.TestEncryptor"
			case NoneEncryptor:
				got = "encryption.NoneEncryptor"
			}
			if got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

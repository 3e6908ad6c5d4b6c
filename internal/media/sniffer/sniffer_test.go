package sniffer

import (
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		head []byte
		want ImageType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, TypePNG},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Detect(tc.head)
			if err != nil {
				t.Fatalf("Detect error: %v", err)
			}
			if result.Type != tc.want {
				t.Fatalf("got %s, want %s", result.Type, tc.want)
			}
		})
	}
}

func TestDetect_Unsupported(t *testing.T) {
	t.Parallel()

	for _, head := range [][]byte{nil, {}, []byte("GIF89a"), []byte("<svg>"), []byte("hello")} {
		if _, err := Detect(head); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("head %q: expected ErrUnsupportedType, got %v", head, err)
		}
	}
}

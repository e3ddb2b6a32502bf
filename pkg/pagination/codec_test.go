/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pagination

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, id := range []int64{0, 1, 42, 999_999, math.MaxInt64, math.MinInt64, -17} {
		token, err := codec.Encode(id)
		if err != nil {
			t.Fatalf("encode %d: %v", id, err)
		}
		if token == "" {
			t.Fatalf("encode %d produced an empty token", id)
		}

		got, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("decode %q: %v", token, err)
		}
		if got != id {
			t.Errorf("round trip of %d came back as %d", id, got)
		}
	}
}

func TestCodecEncodeIsRandomized(t *testing.T) {
	codec := newTestCodec(t)

	first, err := codec.Encode(7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := codec.Encode(7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if first == second {
		t.Fatalf("two encodings of the same id should not share a nonce: %q", first)
	}

	for _, token := range []string{first, second} {
		id, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("decode %q: %v", token, err)
		}
		if id != 7 {
			t.Errorf("decode %q = %d, want 7", token, id)
		}
	}
}

func TestCodecRejectsTamperedTokens(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(12345)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for i := 0; i < len(token); i++ {
		replacement := alphabet[0]
		if token[i] == replacement {
			replacement = alphabet[1]
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		if _, err := codec.Decode(tampered); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("tampering byte %d: got %v, want ErrInvalidCursor", i, err)
		}
	}
}

func TestCodecRejectsGarbageTokens(t *testing.T) {
	codec := newTestCodec(t)

	tokens := []string{
		"",
		"not base64 at all!!!",
		"c2hvcnQ", // valid base64, far too short for a nonce
		strings.Repeat("A", 200),
	}
	for _, token := range tokens {
		if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("decode %q: got %v, want ErrInvalidCursor", token, err)
		}
	}
}

func TestCodecRejectsForeignSecrets(t *testing.T) {
	codec := newTestCodec(t)

	other, err := NewCodec("a-completely-different-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := other.Encode(99)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := codec.Decode(token); !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("decoding a token sealed under another secret: got %v, want ErrInvalidCursor", err)
	}
}

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

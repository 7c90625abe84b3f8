package main

import "testing"

func TestNormalizeListenAddr(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty defaults to 8080", "", ":8080"},
		{"bare port gets colon prefix", "3000", ":3000"},
		{"already prefixed is unchanged", ":9090", ":9090"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeListenAddr(tc.in); got != tc.want {
				t.Errorf("normalizeListenAddr(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolveChatSessionSecret(t *testing.T) {
	t.Run("uses configured secret", func(t *testing.T) {
		secret, fallback := resolveChatSessionSecret("  super-secret  ")
		if secret != "super-secret" || fallback {
			t.Errorf("got (%q, %v), want (%q, false)", secret, fallback, "super-secret")
		}
	})

	t.Run("falls back when unset", func(t *testing.T) {
		secret, fallback := resolveChatSessionSecret("")
		if secret != devFallbackChatSecret || !fallback {
			t.Errorf("got (%q, %v), want (%q, true)", secret, fallback, devFallbackChatSecret)
		}
	})

	t.Run("falls back when only whitespace", func(t *testing.T) {
		secret, fallback := resolveChatSessionSecret("   ")
		if secret != devFallbackChatSecret || !fallback {
			t.Errorf("got (%q, %v), want (%q, true)", secret, fallback, devFallbackChatSecret)
		}
	})
}

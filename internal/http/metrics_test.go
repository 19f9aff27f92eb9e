package http

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/v1/auth/sign-in", "/v1/auth/sign-in"},
		{"/v1/users/12345", "/v1/users/:param"},
		{"/v1/things/deadbeefdeadbeef01", "/v1/things/:param"},
		{"/v1/profile?x=1", "/v1/profile"},
	}
	for _, c := range cases {
		if got := normalizePath(c.in); got != c.want {
			t.Errorf("normalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

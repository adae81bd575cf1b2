package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"ADMIN", RoleAdmin, false},
		{"admin", RoleAdmin, false},
		{"  Manager ", RoleManager, false},
		{"authenticated", RoleAuthenticated, false},
		{"anonymous", RoleAnonymous, false},
		{"superuser", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestAccountSanitized(t *testing.T) {
	account := Account{ID: "acc-1", HashedPassword: "$2a$12$hash"}

	sanitized := account.Sanitized()
	if sanitized.HashedPassword != "" {
		t.Fatal("expected hash to be stripped")
	}
	if account.HashedPassword == "" {
		t.Fatal("expected original account to be untouched")
	}
}

func TestAccountDisplayName(t *testing.T) {
	first := "Ada"
	named := Account{Nickname: "fallback", FirstName: &first}
	if got := named.DisplayName(); got != "Ada" {
		t.Fatalf("expected first name, got %q", got)
	}

	empty := ""
	unnamed := Account{Nickname: "fallback", FirstName: &empty}
	if got := unnamed.DisplayName(); got != "fallback" {
		t.Fatalf("expected nickname fallback, got %q", got)
	}
}

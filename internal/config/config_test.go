package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Screening.W0 != 0.005 || c.Screening.Alpha != 0.05 {
		t.Errorf("unexpected default spending: %+v", c.Screening)
	}
	if c.Server.APIPort != "8080" || c.Server.UIPort != "8090" {
		t.Errorf("unexpected default ports: %+v", c.Server)
	}
}

func TestLoad_RejectsBadSpending(t *testing.T) {
	t.Setenv("SCREENING_ALPHA", "1.5")
	if _, err := Load(); err == nil {
		t.Error("expected error for alpha outside (0,1)")
	}

	t.Setenv("SCREENING_ALPHA", "0.05")
	t.Setenv("SCREENING_W0", "0.1")
	if _, err := Load(); err == nil {
		t.Error("expected error for w0 >= alpha")
	}
}

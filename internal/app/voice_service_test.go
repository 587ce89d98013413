package app

import (
	"testing"

	"github.com/form3tech-oss/jwt-go"
)

func testVoiceService() *VoiceService {
	return NewVoiceService("test-secret", "test-issuer", "test.vivox.com")
}

func parseVoiceClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	return claims
}

func TestGenerateLoginToken(t *testing.T) {
	svc := testVoiceService()
	token, err := svc.GenerateToken("user-1", VoiceActionLogin, "")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	claims := parseVoiceClaims(t, token)
	if claims["iss"] != "test-issuer" || claims["sub"] != "user-1" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims["vxa"] != VoiceActionLogin {
		t.Fatalf("vxa = %v, want login", claims["vxa"])
	}
	// Login tokens target the user's own URI.
	if claims["f"] != claims["t"] {
		t.Fatalf("login token should target the user URI, f=%v t=%v", claims["f"], claims["t"])
	}
}

func TestGenerateJoinToken(t *testing.T) {
	svc := testVoiceService()
	token, err := svc.GenerateToken("user-1", VoiceActionJoin, "match-abc")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	claims := parseVoiceClaims(t, token)
	want := "sip:confctl-g-deliberation-match-abc@test.vivox.com"
	if claims["t"] != want {
		t.Fatalf("t = %v, want %s", claims["t"], want)
	}
}

func TestGenerateTokenRejections(t *testing.T) {
	svc := testVoiceService()

	if _, err := svc.GenerateToken("", VoiceActionLogin, ""); err == nil {
		t.Fatalf("empty user should be rejected")
	}
	if _, err := svc.GenerateToken("user-1", VoiceActionJoin, ""); err == nil {
		t.Fatalf("join without match id should be rejected")
	}
	if _, err := svc.GenerateToken("user-1", "kick", "match-abc"); err == nil {
		t.Fatalf("unknown action should be rejected")
	}

	incomplete := NewVoiceService("", "test-issuer", "test.vivox.com")
	if _, err := incomplete.GenerateToken("user-1", VoiceActionLogin, ""); err == nil {
		t.Fatalf("incomplete config should be rejected")
	}
}

package intel

import (
	"reflect"
	"testing"
)

func TestExtractKYCRoundTrip(t *testing.T) {
	t.Parallel()

	out := Extract("Your KYC is blocked, call 9876543210")

	if !contains(out.PhoneNumbers, "9876543210") {
		t.Errorf("Expected phone 9876543210, got %v", out.PhoneNumbers)
	}
	if !contains(out.Keywords, "kyc") || !contains(out.Keywords, "blocked") {
		t.Errorf("Expected keywords kyc and blocked, got %v", out.Keywords)
	}
}

func TestExtractPhoneNormalization(t *testing.T) {
	t.Parallel()

	out := Extract("call +91-9876543210 or +91 8765432109")
	if !contains(out.PhoneNumbers, "+919876543210") {
		t.Errorf("Expected separator-stripped +919876543210, got %v", out.PhoneNumbers)
	}
	if !contains(out.PhoneNumbers, "+918765432109") {
		t.Errorf("Expected separator-stripped +918765432109, got %v", out.PhoneNumbers)
	}
}

func TestExtractURLsVerbatim(t *testing.T) {
	t.Parallel()

	out := Extract("click https://evil.example/claim?id=1 or http://bit.ly/x now")
	want := []string{"https://evil.example/claim?id=1", "http://bit.ly/x"}
	if !reflect.DeepEqual(out.PhishingLinks, want) {
		t.Errorf("Expected %v, got %v", want, out.PhishingLinks)
	}
}

func TestExtractUPIHandles(t *testing.T) {
	t.Parallel()

	out := Extract("send money to fraudster@paytm or backup@okicici")
	if !contains(out.UpiIDs, "fraudster@paytm") {
		t.Errorf("Expected fraudster@paytm, got %v", out.UpiIDs)
	}
	if !contains(out.UpiIDs, "backup@okicici") {
		t.Errorf("Expected backup@okicici, got %v", out.UpiIDs)
	}

	// Plain email addresses are not payment handles.
	email := Extract("contact me at someone@gmail.com")
	if len(email.UpiIDs) != 0 {
		t.Errorf("Expected no UPI handles from email, got %v", email.UpiIDs)
	}
}

func TestExtractNothing(t *testing.T) {
	t.Parallel()

	out := Extract("see you at dinner tonight")
	if !out.IsEmpty() {
		t.Errorf("Expected empty extraction, got %+v", out)
	}
}

func TestExtractRepeatedEntityOnce(t *testing.T) {
	t.Parallel()

	out := Extract("9876543210 again 9876543210")
	if len(out.PhoneNumbers) != 1 {
		t.Errorf("Expected one phone entry, got %v", out.PhoneNumbers)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

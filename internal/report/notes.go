package report

import (
	"fmt"
	"strings"

	"github.com/sujalkumar04/agentic-honeypot/internal/classify"
	"github.com/sujalkumar04/agentic-honeypot/internal/intel"
	"github.com/sujalkumar04/agentic-honeypot/internal/session"
)

// buildNotes assembles the human-readable summary attached to a report.
func buildNotes(s *session.Session) string {
	var notes []string

	if s.ScamDetected {
		notes = append(notes, fmt.Sprintf("%s detected. %s", s.ScamType, scamDetails(s.ScamType, s.Intelligence)))
	}
	if v := s.Intelligence[intel.CategoryPhoneNumbers]; len(v) > 0 {
		notes = append(notes, "Phone numbers: "+strings.Join(v, ", "))
	}
	if v := s.Intelligence[intel.CategoryUPIIDs]; len(v) > 0 {
		notes = append(notes, "UPI IDs: "+strings.Join(v, ", "))
	}
	if v := s.Intelligence[intel.CategoryBankAccounts]; len(v) > 0 {
		notes = append(notes, "Bank accounts: "+strings.Join(v, ", "))
	}
	if v := s.Intelligence[intel.CategoryURLs]; len(v) > 0 {
		notes = append(notes, "URLs: "+strings.Join(v, ", "))
	}
	notes = append(notes, fmt.Sprintf("Total messages: %d", len(s.Messages)))

	return strings.Join(notes, " | ")
}

// scamDetails describes the tactic behind the classified scam type.
func scamDetails(scamType classify.ScamType, in intel.Intelligence) string {
	switch {
	case scamType == classify.UPIPaymentScam && len(in[intel.CategoryUPIIDs]) > 0:
		return "Scammer requested transfer to " + in[intel.CategoryUPIIDs][0]
	case scamType == classify.PhishingLink && len(in[intel.CategoryURLs]) > 0:
		return "Scammer shared malicious link " + in[intel.CategoryURLs][0]
	case scamType == classify.OTPFraud:
		return "Scammer attempted to steal OTP/verification code"
	case scamType == classify.BankKYCFraud:
		return "Scammer impersonated bank for KYC verification"
	case scamType == classify.JobScam:
		return "Scammer offered fake job opportunity"
	case scamType == classify.LotteryScam:
		return "Scammer claimed victim won lottery/prize"
	default:
		return "Scammer used urgency and social engineering"
	}
}

package vault

import (
	"bytes"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Rule names one password policy requirement
type Rule string

const (
	RuleMinLength Rule = "min_length"
	RuleUppercase Rule = "uppercase"
	RuleLowercase Rule = "lowercase"
	RuleDigit     Rule = "digit"
	RuleSymbol    Rule = "symbol"
	RuleCommon    Rule = "common_password"
)

// DefaultMinPasswordLength is counted in characters, not bytes
const DefaultMinPasswordLength = 12

// commonPasswords are rejected even though they satisfy the character rules
var commonPasswords = []string{
	"password123!",
	"password1234!",
	"p@ssw0rd1234",
	"p@ssword1234",
	"passw0rd!234",
	"welcome123!!",
	"welcome@2024",
	"welcome@2025",
	"qwerty123456!",
	"qwertyuiop1!",
	"q1w2e3r4t5y6!",
	"letmein12345!",
	"admin123456!",
	"iloveyou123!",
	"changeme123!",
	"abc123456789!",
	"123456789abc!",
	"trustno1trustno1!",
	"mantra123456!",
	"football123!",
	"sunshine123!",
	"princess123!",
	"monkey123456!",
	"dragon123456!",
}

// Policy describes what makes a password acceptable for a new wallet
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
	DenyList      []string // compared case-insensitively
}

// DefaultPolicy requires 12 characters with upper, lower, digit and symbol,
// and rejects a built-in list of common passwords.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:     DefaultMinPasswordLength,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
		DenyList:      commonPasswords,
	}
}

// PolicyResult lists the failed rules in a fixed order; empty means the password passes
type PolicyResult struct {
	Failed    []Rule
	MinLength int
}

// OK reports whether every rule passed
func (r PolicyResult) OK() bool {
	return len(r.Failed) == 0
}

// Has reports whether rule failed
func (r PolicyResult) Has(rule Rule) bool {
	for _, f := range r.Failed {
		if f == rule {
			return true
		}
	}
	return false
}

// Messages renders one actionable sentence per failed rule
func (r PolicyResult) Messages() []string {
	msgs := make([]string, 0, len(r.Failed))
	for _, rule := range r.Failed {
		msgs = append(msgs, rule.Message(r.MinLength))
	}
	return msgs
}

// Message describes what the user must change to satisfy the rule
func (rule Rule) Message(minLength int) string {
	switch rule {
	case RuleMinLength:
		return "password must be at least " + strconv.Itoa(minLength) + " characters long"
	case RuleUppercase:
		return "password must contain at least one uppercase letter"
	case RuleLowercase:
		return "password must contain at least one lowercase letter"
	case RuleDigit:
		return "password must contain at least one number"
	case RuleSymbol:
		return "password must contain at least one symbol"
	case RuleCommon:
		return "password is too common"
	default:
		return string(rule)
	}
}

// Check evaluates password against the policy. It has no side effects and does not
// retain password.
func (p Policy) Check(password []byte) PolicyResult {
	res := PolicyResult{MinLength: p.MinLength}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	n := 0
	for i := 0; i < len(password); {
		r, size := utf8.DecodeRune(password[i:])
		i += size
		n++
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			// caseless letters count as neither
		case !unicode.IsSpace(r) && !unicode.IsControl(r):
			hasSymbol = true
		}
	}

	if n < p.MinLength {
		res.Failed = append(res.Failed, RuleMinLength)
	}
	if p.RequireUpper && !hasUpper {
		res.Failed = append(res.Failed, RuleUppercase)
	}
	if p.RequireLower && !hasLower {
		res.Failed = append(res.Failed, RuleLowercase)
	}
	if p.RequireDigit && !hasDigit {
		res.Failed = append(res.Failed, RuleDigit)
	}
	if p.RequireSymbol && !hasSymbol {
		res.Failed = append(res.Failed, RuleSymbol)
	}
	if p.denied(password) {
		res.Failed = append(res.Failed, RuleCommon)
	}
	return res
}

func (p Policy) denied(password []byte) bool {
	for _, common := range p.DenyList {
		if bytes.EqualFold([]byte(common), password) {
			return true
		}
	}
	return false
}

// CheckPassword evaluates password against DefaultPolicy
func CheckPassword(password []byte) PolicyResult {
	return DefaultPolicy().Check(password)
}

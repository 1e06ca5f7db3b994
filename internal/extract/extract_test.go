package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
)

func emailsOf(fields []Field) []string {
	var out []string
	for _, f := range fields {
		if f.Kind == model.FieldEmail {
			out = append(out, f.Value)
		}
	}
	return out
}

func phonesOf(fields []Field) []string {
	var out []string
	for _, f := range fields {
		if f.Kind == model.FieldPhone {
			out = append(out, f.Value)
		}
	}
	return out
}

func TestExtract_Email(t *testing.T) {
	fields := Extract("Reach us at a.b@example.co or not-an-email for details.")
	assert.Equal(t, []string{"a.b@example.co"}, emailsOf(fields))
}

func TestExtract_EmailRejectsBareWord(t *testing.T) {
	fields := Extract("not-an-email and also just text")
	assert.Empty(t, emailsOf(fields))
}

func TestExtract_PhoneNormalization(t *testing.T) {
	fields := Extract("Call +1 415 555 0132 today")
	assert.Equal(t, []string{"+14155550132"}, phonesOf(fields))
}

func TestExtract_PhoneTooShort(t *testing.T) {
	fields := Extract("room 12 is open")
	assert.Empty(t, phonesOf(fields))
}

func TestExtract_PhoneRejectsLongDigitRuns(t *testing.T) {
	// A 20-digit order number must not be truncated into a "valid"
	// 10-digit phone.
	fields := Extract("order 12345678901234567890 confirmed")
	assert.Empty(t, phonesOf(fields))

	// A real number next to a long run is still extracted.
	fields = Extract("ref 12345678901234567890, call (415) 555-0132")
	assert.Equal(t, []string{"4155550132"}, phonesOf(fields))
}

func TestExtract_PhoneFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"nanp parens", "(415) 555-0132", "4155550132"},
		{"nanp dots", "415.555.0132", "4155550132"},
		{"nanp with country", "1-415-555-0132", "14155550132"},
		{"intl plus", "+44 20 7946 0958", "+442079460958"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Extract("phone: " + tt.in)
			require.NotEmpty(t, phonesOf(fields))
			assert.Equal(t, tt.want, phonesOf(fields)[0])
		})
	}
}

func TestExtract_RankFirstSeenMostFrequent(t *testing.T) {
	content := "info@acme.com ... sales@acme.com ... sales@acme.com ... info@acme.com ... press@acme.com ... sales@acme.com"
	fields := Extract(content)

	emails := emailsOf(fields)
	require.Len(t, emails, 3)
	assert.Equal(t, "sales@acme.com", emails[0]) // most frequent ranks highest
	assert.Equal(t, "info@acme.com", emails[1])  // tie broken by first position
	assert.Equal(t, "press@acme.com", emails[2])

	// Confidence is strictly descending with rank.
	var confs []float64
	for _, f := range fields {
		if f.Kind == model.FieldEmail {
			confs = append(confs, f.Confidence)
		}
	}
	assert.Greater(t, confs[0], confs[1])
	assert.Greater(t, confs[1], confs[2])
}

func TestExtract_DedupCaseInsensitiveEmail(t *testing.T) {
	fields := Extract("Info@Acme.com and info@acme.com")
	assert.Equal(t, []string{"info@acme.com"}, emailsOf(fields))
}

func TestTopValue(t *testing.T) {
	fields := Extract("write info@acme.com or call (415) 555-0132")
	assert.Equal(t, "info@acme.com", TopValue(fields, model.FieldEmail))
	assert.Equal(t, "4155550132", TopValue(fields, model.FieldPhone))
	assert.Empty(t, TopValue(nil, model.FieldEmail))
}

func TestExtract_PureNoPanicOnEmpty(t *testing.T) {
	assert.Empty(t, Extract(""))
}

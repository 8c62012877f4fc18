package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAPIToken(t *testing.T) {
	assert.True(t, ValidAPIToken("abcdef0123456789"))
	assert.True(t, ValidAPIToken("  abcd1234abcd12  "))
	assert.False(t, ValidAPIToken("short"))
	assert.False(t, ValidAPIToken("waytoolongtokenvalue123"))
	assert.False(t, ValidAPIToken("has spaces here!"))
	assert.False(t, ValidAPIToken(""))
}

func TestIsSkip(t *testing.T) {
	for _, s := range []string{"skip", "-", "yo'q", "yoq", "otkaz", "O'tkaz", " SKIP "} {
		assert.True(t, IsSkip(s), s)
	}
	assert.False(t, IsSkip("2026-01-01"))
	assert.False(t, IsSkip(""))
}

func TestYesNo(t *testing.T) {
	v, ok := YesNo("Ha")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = YesNo("yo'q")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = YesNo("maybe")
	assert.False(t, ok)
}

func TestParseQty(t *testing.T) {
	v, err := ParseQty("2,5")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 1e-9)

	v, err = ParseQty(" 10 ")
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-9)

	_, err = ParseQty("abc")
	assert.ErrorIs(t, err, ErrNotANumber)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", d)

	_, err = ParseDate("30.08.2026")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", c)

	_, err = ParseClock("25:99")
	assert.Error(t, err)
}

func TestSafePreview(t *testing.T) {
	masked := SafePreview("my key is abcdef0123456789 ok")
	assert.Equal(t, "my key is <token> ok", masked)

	long := SafePreview(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(long), 80)

	assert.Equal(t, "a b", SafePreview("a \n\t b"))
}

func TestItemRelayRoundTrip(t *testing.T) {
	msg := ItemRelayMessage(TagPurchaseItem, "Bolt M8", "ITM-001", "Nos")

	relay, ok := ParseItemRelay(msg)
	require.True(t, ok)
	assert.Equal(t, TagPurchaseItem, relay.Tag)
	assert.Equal(t, "Bolt M8", relay.Name)
	assert.Equal(t, "ITM-001", relay.Code)
	assert.Equal(t, "Nos", relay.UOM)
}

func TestParseItemRelayRejectsPlainText(t *testing.T) {
	_, ok := ParseItemRelay("just a message")
	assert.False(t, ok)

	_, ok = ParseItemRelay("#entryitem\nno code here")
	assert.False(t, ok)
}

func TestWarehouseRelayRoundTrip(t *testing.T) {
	msg := WarehouseRelayMessage("Asosiy ombor", "Main - A")

	relay, ok := ParseWarehouseRelay(msg)
	require.True(t, ok)
	assert.Equal(t, "Asosiy ombor", relay.Name)
	assert.Equal(t, "Main - A", relay.Code)
}

func TestPartyRelayRoundTrip(t *testing.T) {
	msg := PartyRelayMessage(TagCustomer, "Acme LLC", "CUST-0001")

	relay, ok := ParsePartyRelay(msg)
	require.True(t, ok)
	assert.Equal(t, TagCustomer, relay.Tag)
	assert.Equal(t, "Acme LLC", relay.Name)
	assert.Equal(t, "CUST-0001", relay.Code)

	_, ok = ParsePartyRelay("#entrywarehouse\nCode: X")
	assert.False(t, ok)
}

func TestApproveTokenRoundTrip(t *testing.T) {
	kind, name, ok := ParseApproveToken(ApproveTokenMessage("purchase", "MAT-PRE-2026-00012"))
	require.True(t, ok)
	assert.Equal(t, "purchase", kind)
	assert.Equal(t, "MAT-PRE-2026-00012", name)

	_, _, ok = ParseApproveToken("random text")
	assert.False(t, ok)
}

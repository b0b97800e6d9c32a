package csvparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/net-sales-summarizer/internal/types"
)

func TestParseText_CommaDelimited(t *testing.T) {
	sheets := ParseText("کد تنوع,بدهکار,بستانکار,تعداد\nDKPC001,100,500,2\nDKPC001,0,0,3")

	require.Len(t, sheets, 1)
	sheet := sheets[0]
	assert.Equal(t, TextSheetName, sheet.Name)
	assert.Equal(t, []string{"کد تنوع", "بدهکار", "بستانکار", "تعداد"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, types.Row{"کد تنوع": "DKPC001", "بدهکار": "100", "بستانکار": "500", "تعداد": "2"}, sheet.Rows[0])
	assert.Equal(t, "3", sheet.Rows[1]["تعداد"])
}

func TestParseText_TabWinsOnFirstLine(t *testing.T) {
	sheets := ParseText("کد\tشرح, با ویرگول\nDKPC9\tکالا, مدل الف")

	require.Len(t, sheets, 1)
	assert.Equal(t, []string{"کد", "شرح, با ویرگول"}, sheets[0].Headers)
	assert.Equal(t, "کالا, مدل الف", sheets[0].Rows[0]["شرح, با ویرگول"])
}

func TestParseText_TrimsAndFillsMissingCells(t *testing.T) {
	sheets := ParseText("  a , b , c \r\n x ,y\r\n")

	require.Len(t, sheets, 1)
	assert.Equal(t, []string{"a", "b", "c"}, sheets[0].Headers)
	assert.Equal(t, types.Row{"a": "x", "b": "y", "c": ""}, sheets[0].Rows[0])
}

func TestParseText_BlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		assert.Empty(t, ParseText(input), "input %q", input)
	}
}

func TestParseText_HeaderOnly(t *testing.T) {
	sheets := ParseText("کد تنوع,بدهکار")

	require.Len(t, sheets, 1)
	assert.Empty(t, sheets[0].Rows)
}

func TestParseText_DuplicateHeaders(t *testing.T) {
	sheets := ParseText("code,amount,amount\nDKPC1,1,2")

	require.Len(t, sheets, 1)
	assert.Equal(t, []string{"code", "amount"}, sheets[0].Headers)
	assert.Equal(t, "2", sheets[0].Rows[0]["amount"])
}

func TestParseText_KeepsBlankLinesAsRows(t *testing.T) {
	sheets := ParseText("code,amount\nDKPC1,1\n\nDKPC2,2")

	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Rows, 3)
	assert.Equal(t, "", sheets[0].Rows[1]["code"])
}

func TestParseReader_StripsBOM(t *testing.T) {
	sheets, err := ParseReader(strings.NewReader("\ufeffcode,amount\nDKPC1,5"))

	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "code", sheets[0].Headers[0])
}

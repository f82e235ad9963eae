package cleaner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"PhoneStore/internal/cleaner"
	"PhoneStore/internal/phonecsv"
)

func TestClean_CaseInsensitiveDuplicate(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := cleaner.New(zap.New(core))

	out, rep := c.Clean([]phonecsv.Row{
		{Pos: 2, Brand: "Acme", Model: "X1", Storage: "128 ", RAM: "6"},
		{Pos: 3, Brand: "acme", Model: "x1", Storage: "128GB", RAM: "6GB"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Acme", out[0].Brand)
	assert.Equal(t, "128GB", out[0].Storage)
	assert.Equal(t, "6GB", out[0].RAM)

	assert.Equal(t, 1, rep.Duplicates)
	assert.Equal(t, 1, rep.Cleaned)
	assert.Equal(t, 2, rep.Original)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping duplicate", logs.All()[0].Message)
}

func TestClean_BlankRowsCountedSeparately(t *testing.T) {
	out, rep := cleaner.New(nil).Clean([]phonecsv.Row{
		{Brand: "Acme", Model: "X1"},
		{Brand: "  ", Model: "", Price: "$10"},
		{Brand: "Acme", Model: "X2"},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, 1, rep.Blank)
	assert.Equal(t, 2, rep.Original)
	assert.Equal(t, 2, out[0].Pos)
	assert.Equal(t, 3, out[1].Pos)
}

func TestNormalizeBattery(t *testing.T) {
	assert.Equal(t, "5000", cleaner.NormalizeBattery("5,000mAh"))
	assert.Equal(t, "4500", cleaner.NormalizeBattery(" 4500 mAh "))
	assert.Equal(t, "", cleaner.NormalizeBattery("n/a"))
}

func TestNormalizeSize(t *testing.T) {
	tests := map[string]string{
		"128 GB": "128GB",
		"128":    "128GB",
		" 6 ":    "6GB",
		"1TB":    "1TBGB",
		"64gb":   "64gbGB",
		"":       "",
		"   ":    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleaner.NormalizeSize(in), "NormalizeSize(%q)", in)
	}
}

func TestNormalizeCamera(t *testing.T) {
	assert.Equal(t, "12 + 12", cleaner.NormalizeCamera("12MP + 12MP"))
	assert.Equal(t, "48 + 12 + 5", cleaner.NormalizeCamera("48MP  +  12MP +\t5MP"))
	assert.Equal(t, "12 ", cleaner.NormalizeCamera(" 12 MP "))
}

func TestNormalizePrice(t *testing.T) {
	assert.Equal(t, "1099.99", cleaner.NormalizePrice("$1,099.99"))
	assert.Equal(t, "45", cleaner.NormalizePrice(" $ 45 "))
}

const raw = `Brand,Model,Storage,RAM,Screen Size (inches),Camera (MP),Battery Capacity (mAh),Price ($)
Apple,iPhone 13,128 GB,4,6.1,12MP + 12MP,"3,240 mAh","$799"
,,,,,,,
apple,IPHONE 13,128GB,4GB,6.1,12 + 12,3240,799
Samsung,Galaxy S21,256,8 GB,6.2,64MP + 12MP + 12MP,4000,"$1,099"
`

func TestRun_WritesCleanedFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.csv")
	out := filepath.Join(dir, "data_cleaned.csv")
	require.NoError(t, os.WriteFile(in, []byte(raw), 0o644))

	rep, err := cleaner.New(zap.NewNop()).Run(in, out, false)
	require.NoError(t, err)

	assert.Equal(t, cleaner.Report{Original: 3, Cleaned: 2, Duplicates: 1, Blank: 1, Output: out}, rep)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want := "Brand,Model,Storage ,RAM ,Screen Size (inches),Camera (MP),Battery Capacity (mAh),Price ($)\n" +
		"Apple,iPhone 13,128GB,4GB,6.1,12 + 12,3240,799\n" +
		"Samsung,Galaxy S21,256GB,8GB,6.2,64 + 12 + 12,4000,1099\n"
	assert.Equal(t, want, string(data))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.csv")
	out := filepath.Join(dir, "data_cleaned.csv")
	require.NoError(t, os.WriteFile(in, []byte(raw), 0o644))

	rep, err := cleaner.New(nil).Run(in, out, true)
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	assert.Equal(t, 2, rep.Cleaned)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_MissingInput(t *testing.T) {
	_, err := cleaner.New(nil).Run(filepath.Join(t.TempDir(), "nope.csv"), "out.csv", true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReportRender(t *testing.T) {
	s := cleaner.Report{Original: 3, Cleaned: 2, Duplicates: 1, Output: "data_cleaned.csv"}.Render()
	assert.Contains(t, s, "Data cleaning complete")
	assert.Contains(t, s, "Duplicates removed")
	assert.Contains(t, s, "data_cleaned.csv")

	s = cleaner.Report{DryRun: true}.Render()
	assert.Contains(t, s, "Dry run")
}

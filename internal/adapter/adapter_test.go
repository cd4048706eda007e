package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeTempXLSX(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.Save(path))
	return path
}

// --- Mail ---

const mailHeader = `"From: (Name)","From: (Address)","To: (Name)","To: (Address)","CC: (Name)","CC: (Address)"`

func TestMail_FromPair(t *testing.T) {
	path := writeTempCSV(t, "mail.csv", mailHeader+"\n"+
		`"Jane Doe","jane@x.com","","","",""`+"\n")

	contacts, err := (&Mail{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, model.SourceMailFrom, contacts[0].Source)
	assert.Equal(t, "Jane Doe", contacts[0].OriginalName)
	assert.Equal(t, "jane doe", contacts[0].NormalizedName)
	assert.Equal(t, "jane@x.com", contacts[0].Email)
}

func TestMail_RecipientListsZippedByPosition(t *testing.T) {
	path := writeTempCSV(t, "mail.csv", mailHeader+"\n"+
		`"","","Ann A; Bob B","ann@x.com; bob@y.com","Carl C","carl@z.com"`+"\n")

	contacts, err := (&Mail{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, model.SourceMailTo, contacts[0].Source)
	assert.Equal(t, "ann@x.com", contacts[0].Email)
	assert.Equal(t, "bob@y.com", contacts[1].Email)
	assert.Equal(t, model.SourceMailCC, contacts[2].Source)
	assert.Equal(t, "carl@z.com", contacts[2].Email)
}

func TestMail_UnevenListsSkipUnpairedPositions(t *testing.T) {
	// Two names, one address: the second position has no address and is dropped.
	path := writeTempCSV(t, "mail.csv", mailHeader+"\n"+
		`"","","Ann A; Bob B","ann@x.com","",""`+"\n")

	contacts, err := (&Mail{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "ann@x.com", contacts[0].Email)
}

func TestMail_SenderWithoutAddressDropped(t *testing.T) {
	path := writeTempCSV(t, "mail.csv", mailHeader+"\n"+
		`"Jane Doe","","","","",""`+"\n")

	contacts, err := (&Mail{}).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestMail_SenderWithoutNameDropped(t *testing.T) {
	// Same rule as recipient positions: both sides of the pair or nothing.
	path := writeTempCSV(t, "mail.csv", mailHeader+"\n"+
		`"","noreply@x.com","","","",""`+"\n")

	contacts, err := (&Mail{}).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

// --- Network ---

func TestNetwork_SkipsPreambleUntilHeader(t *testing.T) {
	path := writeTempCSV(t, "connections.csv",
		"Notes:\n"+
			`"When exporting your connection data..."`+"\n"+
			"First Name,Last Name,URL,Email Address,Company,Position,Connected On\n"+
			"Jane,Doe,https://example.com/in/jd,jane@x.com,Acme,CEO,01 Jan 2024\n"+
			"Bob,,https://example.com/in/bob,,Beta,CTO,02 Feb 2024\n")

	contacts, err := (&Network{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, model.SourceNetworkExport, contacts[0].Source)
	assert.Equal(t, "Jane Doe", contacts[0].OriginalName)
	assert.Equal(t, "jane@x.com", contacts[0].Email)
	assert.Equal(t, "Bob", contacts[1].OriginalName)
	assert.Equal(t, "", contacts[1].Email)
}

func TestNetwork_NoHeaderAcceptsNothing(t *testing.T) {
	path := writeTempCSV(t, "connections.csv",
		"Jane,Doe,url,jane@x.com\nBob,Smith,url,bob@y.com\n")

	contacts, err := (&Network{}).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestNetwork_EmptyNameDropped(t *testing.T) {
	path := writeTempCSV(t, "connections.csv",
		"First Name,Last Name,URL,Email Address\n"+
			",,url,anon@x.com\n")

	contacts, err := (&Network{}).Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

// --- PhoneBook ---

func TestPhoneBook_PhonePreferenceOrder(t *testing.T) {
	path := writeTempCSV(t, "phonebook.csv",
		"Full Name,Mobile Phone,Home Phone,E-mail Address\n"+
			`"Jane D","98765 43210","(212) 555-0100",`+"\n")

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, model.SourcePhoneBook, contacts[0].Source)
	// Mobile wins over Home.
	assert.Equal(t, "9876543210", contacts[0].Phone)
}

func TestPhoneBook_FallsBackToLaterEmailColumns(t *testing.T) {
	path := writeTempCSV(t, "phonebook.csv",
		"Full Name,E-mail Address,E-mail 2 Address\n"+
			`"Jane D",,jane2@x.com`+"\n")

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "jane2@x.com", contacts[0].Email)
}

func TestPhoneBook_RequiresNameAndOneKey(t *testing.T) {
	path := writeTempCSV(t, "phonebook.csv",
		"Full Name,Mobile Phone,E-mail Address\n"+
			`"No Keys",,`+"\n"+
			`,"98765 43210",`+"\n"+ // no name
			`"Has Phone","98765 43210",`+"\n")

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Has Phone", contacts[0].OriginalName)
}

func TestPhoneBook_ShortPhoneRejected(t *testing.T) {
	path := writeTempCSV(t, "phonebook.csv",
		"Full Name,Mobile Phone\n"+
			`"Jane D","12345"`+"\n")

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	// 12345 normalizes to nothing, so the row has no key left.
	assert.Empty(t, contacts)
}

func TestPhoneBook_XLSX(t *testing.T) {
	path := writeTempXLSX(t, "phonebook.xlsx", [][]string{
		{"Full Name", "Mobile Phone", "E-mail Address"},
		{"Jane D", "98765 43210", ""},
		{"Bob B", "", "bob@y.com"},
		{"No Keys", "", ""},
		{"", "91234 56789", ""},
	})

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, model.SourcePhoneBook, contacts[0].Source)
	assert.Equal(t, "Jane D", contacts[0].OriginalName)
	assert.Equal(t, "9876543210", contacts[0].Phone)
	assert.Equal(t, "Bob B", contacts[1].OriginalName)
	assert.Equal(t, "bob@y.com", contacts[1].Email)
}

func TestPhoneBook_XLSXUppercaseExtension(t *testing.T) {
	path := writeTempXLSX(t, "phonebook.XLSX", [][]string{
		{"Full Name", "Mobile Phone"},
		{"Jane D", "98765 43210"},
	})

	contacts, err := (&PhoneBook{}).Parse(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "9876543210", contacts[0].Phone)
}

func TestAdapters_MissingFile(t *testing.T) {
	for _, a := range []Adapter{&Mail{}, &Network{}, &PhoneBook{}} {
		_, err := a.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err, a.Name())
	}
}

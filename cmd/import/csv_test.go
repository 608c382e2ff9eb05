package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCSV_UTF8(t *testing.T) {
	in := "name,price,stock,expiration_date,category_id\n" +
		"Milk,4.50,10,2025-06-20,3\n" +
		"Bread, 2.25 ,5,2025-06-02,\n"

	rows, err := parseCSV(strings.NewReader(in), "utf8", ',')
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Milk", rows[0].Name)
	assert.Equal(t, "4.5", rows[0].Price.String())
	assert.Equal(t, 10, rows[0].Stock)
	assert.Equal(t, "2025-06-20", rows[0].ExpirationDate)
	require.NotNil(t, rows[0].CategoryID)
	assert.Equal(t, int64(3), *rows[0].CategoryID)

	assert.Equal(t, "2.25", rows[1].Price.String())
	assert.Nil(t, rows[1].CategoryID)
	assert.Nil(t, rows[1].SupplierID)
}

func TestParseCSV_Latin1Semicolon(t *testing.T) {
	utf := "name;price;stock;expiration_date;discounted\nJamón serrano;12.00;2;2025-07-01;true\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := parseCSV(bytes.NewBufferString(latin), "latin1", ';')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jamón serrano", rows[0].Name)
	assert.True(t, rows[0].Discounted)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := parseCSV(strings.NewReader(""), "utf8", ',')
	assert.Error(t, err)

	_, err = parseCSV(strings.NewReader("name,price,stock\nMilk,1,1\n"), "utf8", ',')
	assert.ErrorContains(t, err, "expiration_date")

	_, err = parseCSV(strings.NewReader("name,price,stock,expiration_date\nMilk,abc,1,2025-06-20\n"), "utf8", ',')
	assert.ErrorContains(t, err, "línea 2")

	_, err = parseCSV(strings.NewReader("name,price,stock,expiration_date\n"), "ebcdic", ',')
	assert.ErrorContains(t, err, "charset")
}

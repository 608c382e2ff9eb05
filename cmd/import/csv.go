package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/perishables-api/internal/application/dto"
)

// Columnas obligatorias del CSV; category_id, supplier_id y discounted son opcionales.
var requiredColumns = []string{"name", "price", "stock", "expiration_date"}

// decodeReader envuelve r según el charset (utf8, latin1, windows1252).
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "-", "")) {
	case "", "utf8":
		return r, nil
	case "latin1", "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset %q no soportado", charset)
}

// parseCSV lee filas de productos. Acepta ',' o ';' como separador.
func parseCSV(r io.Reader, charset string, sep rune) ([]dto.ProductRequest, error) {
	dr, err := decodeReader(r, charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dr)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("archivo vacío")
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var rows []dto.ProductRequest
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		price, err := decimal.NewFromString(get("price"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, get("price"))
		}
		stock, err := strconv.Atoi(get("stock"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, get("stock"))
		}
		req := dto.ProductRequest{
			Name:           get("name"),
			Price:          price,
			Stock:          stock,
			ExpirationDate: get("expiration_date"),
		}
		if req.CategoryID, err = optionalID(get("category_id")); err != nil {
			return nil, fmt.Errorf("línea %d: category_id: %w", line, err)
		}
		if req.SupplierID, err = optionalID(get("supplier_id")); err != nil {
			return nil, fmt.Errorf("línea %d: supplier_id: %w", line, err)
		}
		if v := get("discounted"); v != "" {
			if req.Discounted, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("línea %d: discounted inválido %q", line, v)
			}
		}
		rows = append(rows, req)
	}
	return rows, nil
}

func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

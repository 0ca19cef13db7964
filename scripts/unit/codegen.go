package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

type unit struct {
	Name     string
	Code     string
	Const    string
	Exponent int
	Aliases  []string
}

func main() {
	// Open the input file and read its contents
	data, err := readCsvFile(filepath.Join("scripts", "unit", "unit_data.csv"))
	if err != nil {
		panic(fmt.Errorf("error reading CSV file: %v", err))
	}

	// Convert the CSV records to a list of unit objects
	units, err := convertDataToUnits(data)
	if err != nil {
		panic(fmt.Errorf("error converting CSV records: %v", err))
	}

	// Generate Go code from the unit objects using a template
	code, err := generateGoCode(filepath.Join("scripts", "unit", "unit_data.tmpl"), units)
	if err != nil {
		panic(fmt.Errorf("error generating Go code: %v", err))
	}

	// Write the generated Go code to a file
	err = writeToFile("unit_data.go", code)
	if err != nil {
		panic(fmt.Errorf("error writing to file: %v", err))
	}
}

func readCsvFile(filename string) ([][]string, error) {
	// Open the CSV file
	in, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	// Read the CSV records
	reader := csv.NewReader(in)
	_, err = reader.Read() // header
	if err != nil {
		return nil, err
	}
	recs, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return recs, nil
}

func convertDataToUnits(data [][]string) ([]unit, error) {
	units := []unit{}
	seen := map[string]string{}
	for _, rec := range data {
		exp, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", rec[1], err)
		}
		if exp < 0 {
			return nil, fmt.Errorf("unit %q: negative exponent %v", rec[1], exp)
		}
		u := unit{
			Name:     rec[0],
			Code:     rec[1],
			Const:    strings.ToUpper(rec[1]),
			Exponent: exp,
		}
		// Every spelling must resolve to exactly one unit
		for _, a := range strings.Fields(strings.ToLower(rec[3])) {
			if prev, ok := seen[a]; ok {
				return nil, fmt.Errorf("alias %q is used by both %q and %q", a, prev, u.Code)
			}
			seen[a] = u.Code
			u.Aliases = append(u.Aliases, a)
		}
		units = append(units, u)
	}

	// Sort the units by exponent, the base unit goes first
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Exponent < units[j].Exponent
	})
	if len(units) == 0 || units[0].Exponent != 0 {
		return nil, fmt.Errorf("base unit with exponent 0 is missing")
	}
	return units, nil
}

func generateGoCode(filename string, units []unit) ([]byte, error) {
	// Create a new template object from the template file
	tmpl, err := template.New(filepath.Base(filename)).ParseFiles(filename)
	if err != nil {
		return nil, err
	}

	// Execute the template
	var output bytes.Buffer
	err = tmpl.Execute(&output, units)
	if err != nil {
		return nil, err
	}

	// Format the output as Go code
	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return nil, err
	}
	return formatted, nil
}

func writeToFile(filename string, content []byte) error {
	// Write the content to a file
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	writer := bufio.NewWriter(out)
	_, err = writer.Write(content)
	if err != nil {
		return err
	}
	err = writer.Flush()
	if err != nil {
		return err
	}
	return nil
}

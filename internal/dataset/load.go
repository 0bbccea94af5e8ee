package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	routeColumns = []string{"stop_1", "stop_2", "stop_3", "stop_4", "stop_5"}
	venueColumns = []string{
		"name", "address", "link", "img_source",
		"long_coordinates", "lat_coordinates",
		"neighbour_1", "neighbour_2", "neighbour_3",
	}
)

var validate = validator.New()

// Load reads the route and venue tables. Any problem with either file is
// returned as a *DataLoadError; there is no partial load.
func Load(routesPath, venuesPath string) (*Tables, error) {
	routes, err := loadRoutes(routesPath)
	if err != nil {
		return nil, err
	}
	venues, err := loadVenues(venuesPath)
	if err != nil {
		return nil, err
	}
	return NewTables(routes, venues), nil
}

func loadRoutes(path string) ([]RouteTemplate, error) {
	rows, cols, err := readTable(path, routeColumns)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &DataLoadError{Path: path, Err: errors.New("no routes")}
	}

	routes := make([]RouteTemplate, 0, len(rows))
	for i, rec := range rows {
		r := RouteTemplate{Index: i}
		for n, name := range routeColumns {
			id, err := parseID(rec[cols[name]])
			if err != nil {
				return nil, &DataLoadError{Path: path, Row: i + 1, Column: name, Err: err}
			}
			if id == NoNeighbour {
				return nil, &DataLoadError{Path: path, Row: i + 1, Column: name, Err: errors.New("empty stop")}
			}
			r.Stops[n] = id
		}
		if err := validate.Struct(r); err != nil {
			return nil, &DataLoadError{Path: path, Row: i + 1, Err: err}
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func loadVenues(path string) ([]Venue, error) {
	rows, cols, err := readTable(path, venueColumns)
	if err != nil {
		return nil, err
	}

	venues := make([]Venue, 0, len(rows))
	for i, rec := range rows {
		v := Venue{
			ID:          i,
			Name:        strings.TrimSpace(rec[cols["name"]]),
			Address:     strings.TrimSpace(rec[cols["address"]]),
			Link:        strings.TrimSpace(rec[cols["link"]]),
			ImageSource: strings.TrimSpace(rec[cols["img_source"]]),
			Longitude:   strings.TrimSpace(rec[cols["long_coordinates"]]),
			Latitude:    strings.TrimSpace(rec[cols["lat_coordinates"]]),
		}
		for n := range v.Neighbours {
			name := fmt.Sprintf("neighbour_%d", n+1)
			id, err := parseID(rec[cols[name]])
			if err != nil {
				return nil, &DataLoadError{Path: path, Row: i + 1, Column: name, Err: err}
			}
			v.Neighbours[n] = id
		}
		if err := validate.Struct(v); err != nil {
			return nil, &DataLoadError{Path: path, Row: i + 1, Err: err}
		}
		venues = append(venues, v)
	}
	return venues, nil
}

// readTable reads a CSV file and maps each required column to its position.
// Columns not in required are ignored.
func readTable(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &DataLoadError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", path, cerr)
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, &DataLoadError{Path: path, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, nil, &DataLoadError{Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, &DataLoadError{Path: path, Column: name, Err: errors.New("missing column")}
		}
	}

	var rows [][]string
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &DataLoadError{Path: path, Row: line, Err: err}
		}
		for _, name := range required {
			if cols[name] >= len(rec) {
				return nil, nil, &DataLoadError{Path: path, Row: line, Column: name, Err: errors.New("short row")}
			}
		}
		rows = append(rows, rec)
	}
	return rows, cols, nil
}

// parseID reads an integer id. Empty cells yield NoNeighbour. Integral float
// values such as "12.0" are accepted since spreadsheet exports write them.
func parseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return NoNeighbour, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int(f), nil
}

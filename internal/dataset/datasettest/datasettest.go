// Package datasettest writes small route and venue tables for tests.
package datasettest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/build-your-day/internal/dataset"
)

// RoutesCSV is a single route matching the worked example in the docs:
// brunch 2, activity 5, drinks 9, dinner 1, evening 7.
const RoutesCSV = `,stop_1,stop_2,stop_3,stop_4,stop_5
0,2,5,9,1,7
`

// VenuesCSV has ten venues. Venue 2's neighbours are 4, 6 and 8.
const VenuesCSV = `,name,address,link,img_source,long_coordinates,lat_coordinates,neighbour_1,neighbour_2,neighbour_3
0,Federal Cafe,9 Nicholas Croft,https://federalcafe.co.uk,@federal,-2.2380,53.4850,1.0,2.0,3.0
1,Mackie Mayor,1 Eagle St,https://mackiemayor.co.uk,@mackie,-2.2370,53.4860,0,2,3
2,Ezra & Gil,20 Hilton St,https://ezraandgil.com,@ezra,-2.2340,53.4830,4,6,8
3,Bundobust,61 Piccadilly,https://bundobust.com,@bundo,-2.2330,53.4800,0,1,2
4,Pot Kettle Black,Barton Arcade,https://potkettleblack.co.uk,@pkb,-2.2460,53.4820,2,6,8
5,Science and Industry Museum,Liverpool Rd,https://scienceandindustrymuseum.org.uk,@sim,-2.2550,53.4770,6,7,8
6,Ancoats Coffee Co,Royal Mills,https://ancoatscoffee.co.uk,@acc,-2.2290,53.4840,2,4,8
7,Band on the Wall,25 Swan St,https://bandonthewall.org,@botw,-2.2350,53.4860,5,6,8
8,Grindsmith,231 Deansgate,https://grindsmith.com,@grind,-2.2500,53.4780,2,4,6
9,Albert's Schloss,27 Peter St,https://albertsschloss.co.uk,@schloss,-2.2470,53.4780,7,8,0
`

// Write stores the given CSV content in a temp dir and returns both paths.
func Write(t *testing.T, routes, venues string) (routesPath, venuesPath string) {
	t.Helper()
	dir := t.TempDir()
	routesPath = filepath.Join(dir, "routes.csv")
	venuesPath = filepath.Join(dir, "venues.csv")
	if err := os.WriteFile(routesPath, []byte(routes), 0o644); err != nil {
		t.Fatalf("write routes: %v", err)
	}
	if err := os.WriteFile(venuesPath, []byte(venues), 0o644); err != nil {
		t.Fatalf("write venues: %v", err)
	}
	return routesPath, venuesPath
}

// Sample loads the default fixture tables.
func Sample(t *testing.T) *dataset.Tables {
	t.Helper()
	return Load(t, RoutesCSV, VenuesCSV)
}

// Load writes and loads the given tables, failing the test on error.
func Load(t *testing.T, routes, venues string) *dataset.Tables {
	t.Helper()
	rp, vp := Write(t, routes, venues)
	tables, err := dataset.Load(rp, vp)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	return tables
}

// ReplaceVenueRow swaps one line of VenuesCSV (row is the venue id).
func ReplaceVenueRow(row int, line string) string {
	lines := strings.Split(VenuesCSV, "\n")
	lines[row+1] = line
	return strings.Join(lines, "\n")
}

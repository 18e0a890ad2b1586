// Package grid indexes the UTM grid cells (one per zone and latitude band)
// in an R-Tree so the cells covering an area can be listed quickly.
package grid

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/kass/coordcon/pkg/models"
	"github.com/kass/coordcon/pkg/utm"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
	// edge widens queries so cells touching the box are candidates too
	edge = 1e-9
)

// Cell is one zone/band rectangle of the UTM grid
type Cell struct {
	Zone            int     `csv:"zone" json:"zone"`
	Band            string  `csv:"band" json:"band"`
	MinLat          float64 `csv:"min_lat" json:"min_lat"`
	MaxLat          float64 `csv:"max_lat" json:"max_lat"`
	MinLon          float64 `csv:"min_lon" json:"min_lon"`
	MaxLon          float64 `csv:"max_lon" json:"max_lon"`
	CentralMeridian float64 `csv:"central_meridian" json:"central_meridian"`
	Hemisphere      string  `csv:"hemisphere" json:"hemisphere"`
}

// Name returns the cell designator, e.g. "32U"
func (c Cell) Name() string { return fmt.Sprintf("%d%s", c.Zone, c.Band) }

// spatialCell wraps a Cell to implement rtreego.Spatial
type spatialCell struct {
	Cell
	band int
	rect *rtreego.Rect
}

func (sc *spatialCell) Bounds() *rtreego.Rect {
	return sc.rect
}

// Index is an immutable R-Tree over all 1200 grid cells. It is safe for
// concurrent use.
type Index struct {
	tree  *rtreego.Rtree
	count int
}

// NewIndex builds the grid index
func NewIndex() (*Index, error) {
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	count := 0
	for zone := 1; zone <= 60; zone++ {
		cm := utm.CentralMeridian(zone)
		for band := 0; band < len(utm.BandLetters); band++ {
			minLat, maxLat := bandBounds(band)
			cell := Cell{
				Zone:            zone,
				Band:            string(utm.BandLetters[band]),
				MinLat:          minLat,
				MaxLat:          maxLat,
				MinLon:          cm - 3,
				MaxLon:          cm + 3,
				CentralMeridian: cm,
				Hemisphere:      hemisphere(utm.BandLetters[band]),
			}
			rect, err := rtreego.NewRect(rtreego.Point{minLat, cell.MinLon}, []float64{maxLat - minLat, 6})
			if err != nil {
				return nil, fmt.Errorf("invalid cell %s: %w", cell.Name(), err)
			}
			tree.Insert(&spatialCell{Cell: cell, band: band, rect: rect})
			count++
		}
	}

	return &Index{tree: tree, count: count}, nil
}

// Count returns the number of indexed cells
func (idx *Index) Count() int {
	return idx.count
}

// Cells returns the cells containing at least one point of the box, sorted
// by zone then band. Latitudes outside the projectable band are cut off; a
// box entirely outside it yields no cells.
func (idx *Index) Cells(box models.BoundingBox) ([]Cell, error) {
	bl, tr := box.BottomLeft, box.TopRight
	if math.IsNaN(bl.Latitude+bl.Longitude+tr.Latitude+tr.Longitude) ||
		bl.Latitude > tr.Latitude || bl.Longitude > tr.Longitude {
		return nil, fmt.Errorf("%w: invalid bounding box %+v", utm.ErrOutOfRange, box)
	}
	if bl.Longitude < -180 || tr.Longitude > 180 || bl.Latitude < -90 || tr.Latitude > 90 {
		return nil, fmt.Errorf("%w: bounding box %+v exceeds -90..90, -180..180", utm.ErrOutOfRange, box)
	}

	minLat := math.Max(bl.Latitude, utm.MinLatitude)
	maxLat := math.Min(tr.Latitude, utm.MaxLatitude)
	if minLat > maxLat {
		return nil, nil
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{minLat - edge, bl.Longitude - edge},
		[]float64{maxLat - minLat + 2*edge, tr.Longitude - bl.Longitude + 2*edge},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid bounding box: %w", err)
	}

	// The tree yields candidates; the resolver decides which cells the box
	// really reaches so shared edges land on the same side everywhere.
	loZone, hiZone := utm.ZoneNumber(bl.Longitude), utm.ZoneNumber(tr.Longitude)
	loBand, hiBand := bandIndex(minLat), bandIndex(maxLat)

	var cells []Cell
	for _, result := range idx.tree.SearchIntersect(bounds) {
		item, ok := result.(*spatialCell)
		if !ok {
			continue
		}
		if item.Zone >= loZone && item.Zone <= hiZone && item.band >= loBand && item.band <= hiBand {
			cells = append(cells, item.Cell)
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Zone != cells[j].Zone {
			return cells[i].Zone < cells[j].Zone
		}
		return strings.Index(utm.BandLetters, cells[i].Band) < strings.Index(utm.BandLetters, cells[j].Band)
	})
	return cells, nil
}

// Locate returns the cell a coordinate projects into
func (idx *Index) Locate(g models.GeodeticCoordinate) (Cell, error) {
	cells, err := idx.Cells(models.BoundingBox{BottomLeft: g, TopRight: g})
	if err != nil {
		return Cell{}, err
	}
	if len(cells) != 1 {
		return Cell{}, fmt.Errorf("%w: latitude %v has no UTM band", utm.ErrOutOfRange, g.Latitude)
	}
	return cells[0], nil
}

func bandBounds(band int) (float64, float64) {
	minLat := utm.MinLatitude + float64(band)*8
	if band == len(utm.BandLetters)-1 {
		return minLat, utm.MaxLatitude
	}
	return minLat, minLat + 8
}

// bandIndex expects a latitude already clamped to the projectable band
func bandIndex(lat float64) int {
	letter, _ := utm.ZoneLetter(lat)
	return strings.IndexByte(utm.BandLetters, letter)
}

func hemisphere(letter byte) string {
	if utm.Northern(letter) {
		return "N"
	}
	return "S"
}

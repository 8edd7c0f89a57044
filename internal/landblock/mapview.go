package landblock

import "sawitku-backend/internal/models"

const (
	defaultLatitude  = -2.5
	defaultLongitude = 117.0
	defaultZoom      = 13
)

var markerColors = map[models.BlockStatus]string{
	models.BlockProductive:  "#22c55e",
	models.BlockFertilizing: "#f59e0b",
	models.BlockMaintenance: "#3b82f6",
	models.BlockHarvesting:  "#f97316",
}

func MarkerColor(s models.BlockStatus) string {
	if c, ok := markerColors[s]; ok {
		return c
	}
	return "#6b7280"
}

type Marker struct {
	ID           string             `json:"id"`
	Code         string             `json:"kode"`
	Name         string             `json:"nama"`
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
	Status       models.BlockStatus `json:"status"`
	Color        string             `json:"color"`
	AreaHectares float64            `json:"luas_hektar"`
	TreeCount    int                `json:"jumlah_pohon"`
}

type MapView struct {
	Center  [2]float64 `json:"center"`
	Zoom    int        `json:"zoom"`
	Markers []Marker   `json:"markers"`
}

// BuildMap: hanya blok dengan latitude dan longitude yang dipetakan. Pusat
// peta rata-rata koordinat, atau titik tengah Kalimantan jika kosong.
func BuildMap(rows []models.LandBlock) MapView {
	mv := MapView{
		Center:  [2]float64{defaultLatitude, defaultLongitude},
		Zoom:    defaultZoom,
		Markers: make([]Marker, 0, len(rows)),
	}

	var sumLat, sumLng float64
	for _, b := range rows {
		if b.Latitude == nil || b.Longitude == nil {
			continue
		}
		mv.Markers = append(mv.Markers, Marker{
			ID:           b.ID,
			Code:         b.Code,
			Name:         b.Name,
			Latitude:     *b.Latitude,
			Longitude:    *b.Longitude,
			Status:       b.Status,
			Color:        MarkerColor(b.Status),
			AreaHectares: b.AreaHectares,
			TreeCount:    b.TreeCount,
		})
		sumLat += *b.Latitude
		sumLng += *b.Longitude
	}

	if n := float64(len(mv.Markers)); n > 0 {
		mv.Center = [2]float64{sumLat / n, sumLng / n}
	}
	return mv
}

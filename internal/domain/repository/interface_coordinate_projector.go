package repository

// CoordinateProjector converts between global geographic coordinates
// (longitude/latitude on the SIRGAS 2000 ellipsoid, degrees) and the planar
// grid CRS (SIRGAS 2000 / Brazil Albers, meters).
type CoordinateProjector interface {
	// GlobalToPlanar projects a lon/lat pair onto the planar CRS.
	GlobalToPlanar(lon, lat float64) (x, y float64, err error)
	// PlanarToGlobal inverts the projection back to lon/lat.
	PlanarToGlobal(x, y float64) (lon, lat float64, err error)
}

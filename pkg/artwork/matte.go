package artwork

// Matte tokens understood by the Frame art mode.
const (
	MatteType  = "modernthin"
	MatteDark  = "none"
	MatteLight = MatteType + "_warm"
)

// SelectMatte picks the matte for an image: dark images go frameless, light ones get a warm thin matte.
func SelectMatte(dark bool) string {
	if dark {
		return MatteDark
	}
	return MatteLight
}

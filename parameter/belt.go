package parameter

// Pixel Belt layout
const (
	PixelScale      = 2 // each art cell becomes a PixelScale x PixelScale block
	QueueCount      = 5
	SlotCount       = 5
	EntryClearance  = 3 // no entry while any blob sits below this path index
	BeltOffset      = 15.0
	PixelSizeMin    = 8
	PixelSizeBudget = 280

	LargeStack     = 40
	SmallStack     = 20
	MaxPhraseCount = 24
)

package intake

// Status messages shown to the person who submitted the text
const (
	StatusComplete       = "Analysis complete."
	StatusOCRFallback    = "Could not read text from that image, analyzing pasted text if available."
	StatusNothingToRead  = "Please upload an image or paste some text first."
	StatusNoTextAfterOCR = "No text available to analyze."
	StatusFailed         = "Something went wrong during analysis. Please try again."
)

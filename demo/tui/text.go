package tui

// UI Text Constants
const (
	TextTitle = "🛡️  VeriSight Deepfake Scanner"

	// Upload zone
	TextDropPrompt  = "Drop your file here or type its path"
	TextPlaceholder = "/path/to/photo.jpg"
	TextAccepted    = "Images, videos and audio. Files never leave the scan session."

	// Scanning
	TextAnalyzing = "Analyzing..."
	TextRunning   = "Running AI models to detect manipulations"

	// Footer
	TextFooterInput    = "enter: upload | esc/ctrl+c: quit"
	TextFooterScanning = "q/ctrl+c: quit (scan keeps running on the server)"
	TextFooterComplete = "h: toggle heatmap | n: new scan | q: quit"
	TextFooterError    = "n/enter: try again | q: quit"
)

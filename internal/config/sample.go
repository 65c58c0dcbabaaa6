package config

// SampleConfig returns a documented configuration file with every option
func SampleConfig() string {
	return `# ocrsnap configuration
version: "1.0"

# Remote OCR service
service:
  # Service root; /ocr and /ocr-translate are appended
  base_url: "https://juanocrflaskocr123.azurewebsites.net/api"
  # Whole-request timeout, 0 disables it
  timeout: 60s
  user_agent: "ocrsnap"
  # Largest image accepted in file mode
  max_upload_bytes: 10485760

# Initial form state
defaults:
  workflow: "ocr"     # ocr | translate
  mode: "file"        # file | url
  language: "es"      # es | en | fr | de | it | pt

output:
  default_format: "text" # text | json | markdown | csv
  color_mode: "auto"     # auto | always | never
  verbose: false
  theme: "default"       # default | high-contrast | minimal

# Directory watcher (ocrsnap watch)
watch:
  extensions: [".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"]
  debounce: 500ms
  # Write <name>.txt next to results here; empty disables
  output_dir: ""
  workflow: "ocr"
  recursive: false
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "https://juanocrflaskocr123.azurewebsites.net/api"
  timeout: 60s
defaults:
  language: "es"
output:
  default_format: "text"
`
}

package embed_data

import _ "embed"

//go:embed models_details.json
var ModelDetails []byte

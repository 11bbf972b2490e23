package dto

// GenerateSignalRequest is the body of POST /api/signals
type GenerateSignalRequest struct {
	Asset      string `json:"asset"`
	Expiration string `json:"expiration"`
	Invert     bool   `json:"invert"`
}

// AssetStatus describes one asset and whether its market is open
type AssetStatus struct {
	Asset string `json:"asset"`
	OTC   bool   `json:"otc"`
	Open  bool   `json:"open"`
}

// UpdateSettingRequest is the body of PUT /api/admin/settings/:key
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

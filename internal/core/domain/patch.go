package domain

// SettingsPatch is a partial update to a domain's settings. Nil fields
// are left untouched. Nameserver changes are pushed to the provider.
type SettingsPatch struct {
	AutoRenew      *bool    `json:"auto_renew,omitempty"`
	PrivacyEnabled *bool    `json:"privacy_enabled,omitempty"`
	Nameservers    []string `json:"nameservers,omitempty"`
}

// RecordPatch is a partial update to a DNS record.
type RecordPatch struct {
	Content  *string `json:"content,omitempty"`
	TTL      *int    `json:"ttl,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Proxied  *bool   `json:"proxied,omitempty"`
}

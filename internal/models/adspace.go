package models

// AdSpace is a purchasable advertising slot registered with the factory.
// Price is always in the smallest currency unit.
type AdSpace struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Price       Amount   `json:"price"`
	Available   bool     `json:"available"`
	NFTIDs      []string `json:"nft_ids,omitempty"`
	Creator     string   `json:"creator,omitempty"`
}

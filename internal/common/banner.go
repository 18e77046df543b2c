package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner followed by the effective endpoints
func PrintBanner(config *Config) {
	banner.Print("Pedoman", GetVersion())
	fmt.Printf("  web     : http://%s:%d\n", config.Server.Host, config.Server.Port)
	fmt.Printf("  backend : %s/api/v1\n", config.Backend.BaseURL)
	fmt.Println()
}

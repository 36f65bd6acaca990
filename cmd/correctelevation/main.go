// Command correctelevation corrects the elevation tags of OSM routes,
// rivers, tunnels and bridges, and serves the corrected values.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

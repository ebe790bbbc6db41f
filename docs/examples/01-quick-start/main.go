package main

import (
	"fmt"
	"log"

	"github.com/polyspace/geopoly/pkg/geopoly"
)

func main() {
	p, err := geopoly.ParseJSON("[[0,0],[1,0],[1,1],[0,1]]")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("vertices: %d\n", p.NVertex())
	fmt.Printf("area: %.4f\n", p.Area())

	bbox := p.BBox()
	fmt.Printf("bbox: [%.4f,%.4f] to [%.4f,%.4f]\n",
		bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)

	switch p.Within(0.5, 0.5) {
	case geopoly.Inside:
		fmt.Println("(0.5, 0.5) is inside")
	case geopoly.Boundary:
		fmt.Println("(0.5, 0.5) is on the boundary")
	case geopoly.Outside:
		fmt.Println("(0.5, 0.5) is outside")
	}

	fmt.Printf("JSON: %s\n", p.JSON())
}

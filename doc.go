/*
Package carve is a content aware image resize library built around seam carving:
it repeatedly finds and removes (or inserts) the connected top-to-bottom path of
pixels with the lowest total energy, so that low-importance regions shrink or
grow before visually salient ones.

The engine operates on in-memory Grid buffers and knows nothing about file
formats. A minimal integration looks like this:

	package main

	import (
		"fmt"

		"github.com/disintegration/imaging"
		"github.com/esimov/carve"
	)

	func main() {
		img, err := imaging.Open("sample.jpg")
		if err != nil {
			fmt.Printf("error opening image: %s", err.Error())
		}

		p := &carve.Processor{
			NewWidth:  640,
			NewHeight: 480,
		}

		res, err := p.Resize(carve.FromImage(img))
		if err != nil {
			fmt.Printf("error rescaling image: %s", err.Error())
		}
		_ = res
	}

The package also ships a command line interface, supporting various flags for
different types of rescaling operations. To check the supported commands type:

	$ carve --help
*/
package carve

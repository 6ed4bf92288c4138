// SPDX-License-Identifier: MIT

package so3_test

import (
	"fmt"

	"github.com/katalvlaran/foldflow/geometry"
	"github.com/katalvlaran/foldflow/so3"
)

// ExampleGeodesic walks a quarter turn about z in halves.
func ExampleGeodesic() {
	R1 := so3.Exp(geometry.Vec3{0, 0, 1.5707963267948966})
	mid := so3.Geodesic(so3.Identity(), R1, 0.5)
	fmt.Printf("angle=%.4f\n", so3.Angle(so3.Identity(), mid))
	// Output:
	// angle=0.7854
}

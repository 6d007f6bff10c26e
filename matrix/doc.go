// Package matrix is the refresh and input engine for an 8x8 bicolor LED
// shield.
//
// The application draws into the writable Frame and calls
// Engine.Exchange. A periodic interrupt calls Engine.Tick, which scans one
// row of the visible Frame on the Output and samples one of the five
// buttons. The two contexts share nothing outside the masked section of
// Exchange: the frames swap labels there, and button state and the tick
// count are copied into application-owned snapshots.
//
//	e := matrix.New(out, deps, matrix.Config{Revision: matrix.Rev01})
//	if err := e.Begin(); err != nil {
//		return err
//	}
//	for {
//		e.Clear()
//		e.Set(3, 2, matrix.Red)
//		e.Exchange()
//		if e.IsDown(matrix.Rev01.Buttons().Fire) {
//			// ...
//		}
//	}
package matrix

// Package physics wraps the rigid-body engine behind a small system API:
// box bodies, spherical links and fixed-step integration.
//
// The engine is planar. Bodies move in the XY plane and rotate about +Z;
// each body keeps the z coordinate it was created with:
//
//	sys := physics.NewSystem()
//	floor, _ := physics.NewBoxBody(10, 2, 10, 3000, true, false)
//	floor.SetPos(dynamo.V(0, -2, 0))
//	floor.SetFixed(true)
//	sys.Add(floor)
//
// [CompoundPendulum] is an independent closed-form model of a hinged body, used
// to check the engine against.
package physics

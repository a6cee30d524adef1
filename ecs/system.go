package ecs

// System is a unit of per-frame game logic. Initialize is called once before
// the first frame, which is where systems usually subscribe to the store's
// notifications. Update is called once per frame; a returned error stops the
// driver loop.
type System interface {
	Initialize(store *Store) error
	Update(dt float64, store *Store) error
}

// RenderService is a System that additionally receives the renderer so it
// can queue draw work. R is whatever the driver renders through.
type RenderService[R any] interface {
	Initialize(store *Store, renderer R) error
	Update(dt float64, store *Store, renderer R) error
}

// Package keylock serializa escritores por clave de agregado (material o
// estante). Claves distintas avanzan en paralelo; la adquisición está acotada
// por contexto para que la contención salga como error reintentable en lugar
// de bloquear indefinidamente.
package keylock

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/taller-erp/internal/domain"
	"golang.org/x/sync/semaphore"
)

// KeyLock mantiene un semáforo de peso 1 por clave viva.
type KeyLock struct {
	mu      sync.Mutex
	locks   map[string]*semaphore.Weighted
	timeout time.Duration
}

// New construye el registro con el plazo máximo de espera por clave.
func New(timeout time.Duration) *KeyLock {
	return &KeyLock{
		locks:   make(map[string]*semaphore.Weighted),
		timeout: timeout,
	}
}

// Acquire toma el lock de la clave o falla con ErrLockTimeout si no lo
// consigue dentro del plazo (o el contexto se cancela antes). El release
// devuelto debe llamarse exactamente una vez.
func (k *KeyLock) Acquire(ctx context.Context, key string) (release func(), err error) {
	sem := k.semFor(key)

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, domain.ErrLockTimeout
	}
	var once sync.Once
	return func() { once.Do(func() { sem.Release(1) }) }, nil
}

// AcquireMany toma varias claves siempre en el orden recibido (el caller fija
// un orden global, ej. material antes que estante, para evitar deadlocks).
// Si alguna falla libera las ya tomadas.
func (k *KeyLock) AcquireMany(ctx context.Context, keys ...string) (release func(), err error) {
	acquired := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i]()
		}
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		rel, err := k.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		acquired = append(acquired, rel)
	}
	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func (k *KeyLock) semFor(key string) *semaphore.Weighted {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.locks[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		k.locks[key] = sem
	}
	return sem
}

package keylock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

// TestAcquire_SerializaMismaClave: dos goroutines sobre la misma clave nunca
// entran a la sección crítica a la vez.
func TestAcquire_SerializaMismaClave(t *testing.T) {
	kl := keylock.New(2 * time.Second)
	var inside, maxInside int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := kl.Acquire(context.Background(), "material:m1")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside, "nunca debe haber más de un escritor por clave")
}

// TestAcquire_TimeoutContencion: con el lock tomado, un segundo Acquire sale
// con ErrLockTimeout (reintentable) dentro del plazo, sin deadlock.
func TestAcquire_TimeoutContencion(t *testing.T) {
	kl := keylock.New(50 * time.Millisecond)

	release, err := kl.Acquire(context.Background(), "shelf:s1")
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = kl.Acquire(context.Background(), "shelf:s1")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.True(t, domain.IsRetryable(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestAcquire_ClavesDisjuntasEnParalelo: claves distintas no se bloquean
// entre sí.
func TestAcquire_ClavesDisjuntasEnParalelo(t *testing.T) {
	kl := keylock.New(50 * time.Millisecond)

	relA, err := kl.Acquire(context.Background(), "material:a")
	require.NoError(t, err)
	defer relA()

	relB, err := kl.Acquire(context.Background(), "material:b")
	require.NoError(t, err)
	relB()
}

// TestAcquireMany_LiberaTodoEnFallo: si la segunda clave no se consigue, la
// primera queda liberada (sin locks huérfanos).
func TestAcquireMany_LiberaTodoEnFallo(t *testing.T) {
	kl := keylock.New(30 * time.Millisecond)

	holdShelf, err := kl.Acquire(context.Background(), "shelf:s9")
	require.NoError(t, err)

	_, err = kl.AcquireMany(context.Background(), "material:m9", "shelf:s9")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	holdShelf()

	// material:m9 debe estar libre tras el fallo
	rel, err := kl.Acquire(context.Background(), "material:m9")
	require.NoError(t, err)
	rel()
}

// TestAcquireMany_IgnoraClaveVacia: movimientos sin estante pasan clave vacía
// y solo bloquean el material.
func TestAcquireMany_IgnoraClaveVacia(t *testing.T) {
	kl := keylock.New(time.Second)
	rel, err := kl.AcquireMany(context.Background(), "material:m1", "")
	require.NoError(t, err)
	rel()
}

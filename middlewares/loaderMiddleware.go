package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/models"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	LeadLoader  *dataloader.Loader[int, *models.Lead]
	RouteLoader *dataloader.Loader[int, *models.Route]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	leadReader := &leadReader{db: conn}
	routeReader := &routeReader{db: conn}

	return &Loaders{
		LeadLoader:  dataloader.NewBatchedLoader(leadReader.getLeads, dataloader.WithWait[int, *models.Lead](time.Millisecond)),
		RouteLoader: dataloader.NewBatchedLoader(routeReader.getRoutes, dataloader.WithWait[int, *models.Route](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

type keyed interface {
	GetId() int
}

// turns results from db into dataloader results, aligned with the ids order.
// Missing ids resolve to a nil Data, not an error.
func generateLoaderResults[T keyed](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T, len(results))
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		if data, ok := resultMap[id]; ok {
			// new variable per turn, to avoid pointing at the loop variable
			copied := data
			loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &copied})
		} else {
			loaderResults = append(loaderResults, &dataloader.Result[*T]{})
		}
	}
	return loaderResults
}

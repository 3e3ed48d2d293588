package controller

import (
	"errors"
	"net/http"

	"github.com/Scalingo/repos-languages/model"
	"github.com/Scalingo/repos-languages/service"
	"github.com/gin-gonic/gin"
)

type APIController interface {
	GetRepositories(ctx *gin.Context)
}

type apiController struct {
	collectorService service.CollectorService
}

func NewAPIController(service service.CollectorService) APIController {
	return apiController{
		collectorService: service,
	}
}

// GetRepositories collects the table of the owner given in path, nothing is written on disk
// a partial listing is still served with the error that stopped it
func (s apiController) GetRepositories(c *gin.Context) {
	owner := c.Param("owner")

	// execute the request
	listing, table, err := s.collectorService.CollectTable(c.Request.Context(), owner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
		return
	}

	if listing.Status == model.ListingFailed {
		status := http.StatusBadGateway
		if errors.Is(listing.Err, model.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}

		c.JSON(status, model.NewAPIError(listing.Err))
		return
	}

	response := model.RepositoriesResponse{
		Owner:  owner,
		Status: listing.Status,
		Rows:   table.Rows(),
	}

	if listing.Err != nil {
		apiErr := model.NewAPIError(listing.Err)
		response.Error = &apiErr
	}

	c.JSON(http.StatusOK, response)
}

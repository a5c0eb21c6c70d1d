package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DataResponse struct {
	Data any `json:"data"`
}

type ListResponse struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, ListResponse{Data: data, Count: count})
}

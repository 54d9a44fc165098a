package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/burnchat/pkg/username"
)

// Username выдаёт анонимное отображаемое имя для нового участника
func Username(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": username.Generate()})
}

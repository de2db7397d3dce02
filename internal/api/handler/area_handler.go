package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"bili-live-ctl/internal/api/response"
	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/service"
)

// AreaListHandler 列出分区名。parent_id 为 0 列主分区，否则列该主分区下的子分区
func AreaListHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := live.EnsureAreas(); err != nil {
			response.FromError(c, err)
			return
		}
		parentID, err := strconv.Atoi(c.DefaultQuery("parent_id", "0"))
		if err != nil || parentID < 0 {
			response.Error(c, "parent_id 格式不正确")
			return
		}
		names, ferr := live.Areas.ListNames(parentID)
		if ferr != nil {
			response.FromError(c, ferr)
			return
		}
		response.OkWithData(c, gin.H{"names": names})
	}
}

// AreaSearchHandler 按名称/拼音/首字母检索分区 id。
// scope: 0 只搜主分区，-1 全局搜子分区，>0 限定主分区
func AreaSearchHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			response.Error(c, "name 不能为空")
			return
		}
		scope := area.ScopeGlobal
		if raw := c.Query("scope"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				response.Error(c, "scope 格式不正确")
				return
			}
			scope = n
		}
		if err := live.EnsureAreas(); err != nil {
			response.FromError(c, err)
			return
		}
		id, ferr := live.Areas.ResolveIDByName(name, scope)
		if ferr != nil {
			response.FromError(c, ferr)
			return
		}
		resp := gin.H{"area_id": id}
		if leaf, lerr := live.Areas.IsValidAreaID(id); lerr == nil {
			resp["name"] = leaf.Name
			resp["parent_id"] = leaf.ParentID
			resp["parent_name"] = leaf.ParentName
		}
		response.OkWithData(c, resp)
	}
}

// AreaRefreshHandler 向上游重新拉取分区目录
func AreaRefreshHandler(live *service.Live) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := live.FetchAreaList(); err != nil {
			response.FromError(c, err)
			return
		}
		if err := live.SaveSession(); err != nil {
			response.FromError(c, err)
			return
		}
		roots, leaves := live.Areas.Size()
		response.OkWithData(c, gin.H{"roots": roots, "areas": leaves})
	}
}

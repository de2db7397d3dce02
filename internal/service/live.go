package service

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/avast/retry-go/v5"
	"github.com/rs/zerolog/log"

	"bili-live-ctl/internal/area"
	"bili-live-ctl/internal/bili"
	"bili-live-ctl/internal/bili/sign"
	"bili-live-ctl/internal/fail"
	"bili-live-ctl/internal/session"
)

// CheckLogin 校验登录态。上游返回 -101 (账号未登录) 时，
// 缓存的 cookie 即作废，需要重新扫码。
func (l *Live) CheckLogin() *bili.Result {
	result := l.absorb(l.client.Get(bili.EndpointUserStatus, nil, l.Session.Credentials.Cookies))
	if result.Code == -101 {
		log.Warn().Msg("登录态已失效，清空缓存的 cookie")
		l.Session.Credentials.Invalidate()
		result.Reason = fail.InvalidCookies
	}
	return result
}

// ResolveRoomID 由 user_id 解析直播间号，登录后执行一次
func (l *Live) ResolveRoomID() error {
	if l.Session.Credentials.UserID <= 0 {
		return fail.New(fail.ArgError, "user_id 未就绪")
	}
	params := url.Values{}
	params.Set("uid", strconv.FormatInt(l.Session.Credentials.UserID, 10))
	result := l.absorb(l.client.Get(bili.EndpointRoomIDByUID, params, l.Session.Credentials.Cookies))
	if !result.OK() {
		return result.Err()
	}
	var data bili.RoomIDData
	if err := result.DecodeData(&data); err != nil {
		return err
	}
	l.Session.Room.RoomID = data.RoomID
	log.Info().Int("room_id", data.RoomID).Msg("已解析直播间号")
	return nil
}

// RefreshRoomInfo 刷新直播间信息。只有这里写入的 live_status 才是权威值；
// 刷新失败时状态退回 unknown。
func (l *Live) RefreshRoomInfo() error {
	if l.Session.Room.RoomID <= 0 {
		return fail.New(fail.ArgError, "room_id 未就绪")
	}
	form := url.Values{}
	form.Set("room_id", strconv.Itoa(l.Session.Room.RoomID))
	result := l.absorb(l.client.Post(bili.EndpointRoomInfo, form, l.Session.Credentials.Cookies))
	if !result.OK() {
		l.Session.Room.MarkStale()
		return result.Err()
	}

	var info bili.RoomInfoData
	if err := result.DecodeData(&info); err != nil {
		l.Session.Room.MarkStale()
		return err
	}
	room := &l.Session.Room
	room.AreaID = info.AreaID
	room.Title = info.Title
	room.LiveStatus = info.LiveStatus

	// 原始快照只读保留，供展示用
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(result.Data, &snapshot); err == nil {
		room.Snapshot = snapshot
	}
	return nil
}

// FetchAreaList 拉取并整体重建分区目录
func (l *Live) FetchAreaList() error {
	result := l.absorb(l.client.Get(bili.EndpointAreaList, nil, nil))
	if !result.OK() {
		return result.Err()
	}
	var payload []area.RootPayload
	if err := result.DecodeData(&payload); err != nil {
		return err
	}
	l.rawAreas = payload
	l.Areas = area.Build(payload)
	roots, leaves := l.Areas.Size()
	log.Info().Int("roots", roots).Int("areas", leaves).Msg("分区目录已更新")
	return nil
}

// EnsureAreas 分区目录为空时先拉一次
func (l *Live) EnsureAreas() error {
	if l.Areas != nil {
		return nil
	}
	return l.FetchAreaList()
}

// StartLive 开播。唯一需要 appsign 签名的操作；
// 成功后记录推流地址，live_status 标记为过期等待下次刷新。
func (l *Live) StartLive() *bili.Result {
	params, err := l.Session.BuildStartLiveParams()
	if err != nil {
		return failResult(err)
	}
	result := l.absorb(l.client.Post(bili.EndpointStartLive, sign.AppSign(params), l.Session.Credentials.Cookies))
	if !result.OK() {
		return result
	}

	var data bili.StartLiveData
	if err := result.DecodeData(&data); err == nil {
		l.Session.Room.RtmpAddr = data.Rtmp.Addr
		l.Session.Room.RtmpCode = data.Rtmp.Code
	}
	l.Session.Room.MarkStale()
	log.Info().Msg("开播成功，推流地址已更新")
	return result
}

// StartLiveWithFaceRetry 开播，遇到人脸验证时交给 prompt 引导用户扫码，
// 然后把原操作恰好再试一次，仍失败就原样返回，不做无限循环。
func (l *Live) StartLiveWithFaceRetry(prompt func(qrURL string) error) *bili.Result {
	var result *bili.Result
	_, _ = retry.NewWithData[*bili.Result](
		retry.Attempts(2),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return fail.ReasonOf(err) == fail.NeedFaceAuth
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Msg("需要人脸验证，引导扫码后重试一次")
			qrURL, qErr := l.FaceAuthQR()
			if qErr != nil {
				log.Err(qErr).Msg("获取人脸验证二维码失败")
				return
			}
			if prompt != nil {
				if pErr := prompt(qrURL); pErr != nil {
					log.Err(pErr).Msg("人脸验证引导失败")
				}
			}
		}),
	).Do(func() (*bili.Result, error) {
		result = l.StartLive()
		if result.Reason == fail.NeedFaceAuth {
			return result, result.Err()
		}
		return result, nil
	})
	return result
}

// FaceAuthQR 查询人脸验证挑战，返回待展示的二维码内容
func (l *Live) FaceAuthQR() (string, error) {
	params, err := l.Session.BuildFaceAuthParams()
	if err != nil {
		return "", err
	}
	result := l.absorb(l.client.Post(bili.EndpointFaceAuth, params, l.Session.Credentials.Cookies))
	// 这个接口的预期返回就是带 qr 字段的人脸验证挑战
	if result.Reason != fail.NeedFaceAuth && !result.OK() {
		return "", result.Err()
	}
	var data struct {
		QR string `json:"qr"`
	}
	if err := result.DecodeData(&data); err != nil {
		return "", err
	}
	if data.QR == "" {
		return "", fail.New(fail.NoResult, "上游没有返回人脸验证二维码")
	}
	return data.QR, nil
}

// StopLive 下播
func (l *Live) StopLive() *bili.Result {
	params, err := l.Session.BuildStopLiveParams()
	if err != nil {
		return failResult(err)
	}
	result := l.absorb(l.client.Post(bili.EndpointStopLive, params, l.Session.Credentials.Cookies))
	if result.OK() {
		l.Session.Room.MarkStale()
		log.Info().Msg("已下播")
	}
	return result
}

// UpdateTitle 修改直播标题
func (l *Live) UpdateTitle(title string) *bili.Result {
	params, err := l.Session.BuildUpdateTitleParams(title)
	if err != nil {
		return failResult(err)
	}
	result := l.absorb(l.client.Post(bili.EndpointRoomUpdate, params, l.Session.Credentials.Cookies))
	if result.OK() {
		l.Session.Room.Title = title
		l.Session.Room.MarkStale()
	}
	return result
}

// UpdateArea 修改直播分区，分区 id 必须是分区目录里的子分区
func (l *Live) UpdateArea(areaID int) *bili.Result {
	if err := l.EnsureAreas(); err != nil {
		return failResult(err)
	}
	leaf, ferr := l.Areas.IsValidAreaID(areaID)
	if ferr != nil {
		return failResult(ferr)
	}
	params, err := l.Session.BuildUpdateAreaParams(areaID)
	if err != nil {
		return failResult(err)
	}
	result := l.absorb(l.client.Post(bili.EndpointRoomUpdate, params, l.Session.Credentials.Cookies))
	if result.OK() {
		l.Session.Room.AreaID = areaID
		l.Session.Room.MarkStale()
		log.Info().Str("area", leaf.Name).Str("parent", leaf.ParentName).Msg("分区已更新")
	}
	return result
}

// DanmuInfo 获取弹幕服务器的地址与令牌 (wbi 签名接口)
func (l *Live) DanmuInfo(roomID int) (*bili.DanmuInfoData, error) {
	imgKey, subKey, err := l.WbiKeys()
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("id", strconv.Itoa(roomID))
	params.Set("type", "0")
	result := l.absorb(l.client.Get(bili.EndpointDanmuInfo, sign.EncWbi(params, imgKey, subKey), l.Session.Credentials.Cookies))
	if !result.OK() {
		return nil, result.Err()
	}
	var data bili.DanmuInfoData
	if err := result.DecodeData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// failResult 把参数校验错误包装成统一的 Result
func failResult(err error) *bili.Result {
	return &bili.Result{
		Status: bili.StatusFail,
		Reason: fail.ReasonOf(err),
		Msg:    err.Error(),
	}
}

// LiveStatusText live_status 的展示文案
func LiveStatusText(status int) string {
	switch status {
	case session.LiveNotLive:
		return "未开播"
	case session.LiveStreaming:
		return "直播中"
	case session.LiveRotation:
		return "轮播中"
	default:
		return "未知"
	}
}

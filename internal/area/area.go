// Package area 维护 B站直播分区目录 (主分区 -> 子分区两级结构)，
// 提供 id 校验与 名称/拼音/拼音首字母 的模糊检索。
package area

import (
	"strings"

	"github.com/mozillazg/go-pinyin"

	"bili-live-ctl/internal/fail"
)

// 检索范围约定: 0 只搜主分区，-1 全局搜子分区，>0 在指定主分区的子分区中搜
const (
	ScopeRootOnly = 0
	ScopeGlobal   = -1
)

// RootPayload getList 接口返回的主分区原始结构
type RootPayload struct {
	ID   int           `json:"id"`
	Name string        `json:"name"`
	List []LeafPayload `json:"list"`
}

// LeafPayload 子分区原始结构
type LeafPayload struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ParentID   int    `json:"parent_id"`
	ParentName string `json:"parent_name"`
}

// Root 主分区，ChildIDs/ChildNames 保持上游返回顺序
type Root struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Pinyin     string   `json:"pinyin"`
	Initials   string   `json:"py"`
	ChildIDs   []int    `json:"child_id"`
	ChildNames []string `json:"child_name"`
}

// Area 子分区，只有子分区 id 才是合法的 area_id
type Area struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Pinyin     string `json:"pinyin"`
	Initials   string `json:"py"`
	ParentID   int    `json:"parent_id"`
	ParentName string `json:"parent_name"`
}

// Directory 整个分区目录，每次刷新整体重建，从不部分修改
type Directory struct {
	rootIDs []int
	roots   map[int]*Root
	areas   map[int]*Area
}

// Build 从 getList 原始结构构建目录，同时计算每个名字的拼音与首字母
func Build(payload []RootPayload) *Directory {
	dir := &Directory{
		roots: make(map[int]*Root, len(payload)),
		areas: make(map[int]*Area),
	}
	for _, rp := range payload {
		root := &Root{
			ID:       rp.ID,
			Name:     rp.Name,
			Pinyin:   Pinyin(rp.Name, false),
			Initials: Pinyin(rp.Name, true),
		}
		dir.rootIDs = append(dir.rootIDs, rp.ID)
		dir.roots[rp.ID] = root
		for _, lp := range rp.List {
			parentID := lp.ParentID
			if parentID == 0 {
				parentID = rp.ID
			}
			parentName := lp.ParentName
			if parentName == "" {
				parentName = rp.Name
			}
			leaf := &Area{
				ID:         lp.ID,
				Name:       lp.Name,
				Pinyin:     Pinyin(lp.Name, false),
				Initials:   Pinyin(lp.Name, true),
				ParentID:   parentID,
				ParentName: parentName,
			}
			dir.areas[lp.ID] = leaf
			root.ChildIDs = append(root.ChildIDs, lp.ID)
			root.ChildNames = append(root.ChildNames, lp.Name)
		}
	}
	return dir
}

// Size 返回 (主分区数, 子分区数)
func (d *Directory) Size() (int, int) {
	return len(d.rootIDs), len(d.areas)
}

// IsValidAreaID 校验 id 是否是合法的子分区 id。
// 主分区 id 不能作为直播分区使用，同样返回 ArgError。
func (d *Directory) IsValidAreaID(id int) (*Area, *fail.Error) {
	if leaf, ok := d.areas[id]; ok {
		return leaf, nil
	}
	if _, ok := d.roots[id]; ok {
		return nil, fail.New(fail.ArgError, "id %d 是主分区，不能作为直播分区", id)
	}
	return nil, fail.New(fail.ArgError, "分区 id %d 不存在", id)
}

// ResolveIDByName 按名称检索分区 id。
// name 命中规则: 是显示名的子串，或与拼音全拼/首字母完全相同，先命中先返回。
func (d *Directory) ResolveIDByName(name string, scope int) (int, *fail.Error) {
	if name == "" {
		return 0, fail.New(fail.ArgError, "检索的分区名为空")
	}
	switch {
	case scope == ScopeRootOnly:
		for _, id := range d.rootIDs {
			if root := d.roots[id]; matchName(name, root.Name, root.Pinyin, root.Initials) {
				return id, nil
			}
		}
	case scope == ScopeGlobal:
		for _, rootID := range d.rootIDs {
			for _, id := range d.roots[rootID].ChildIDs {
				if leaf := d.areas[id]; matchName(name, leaf.Name, leaf.Pinyin, leaf.Initials) {
					return id, nil
				}
			}
		}
	case scope > 0:
		root, ok := d.roots[scope]
		if !ok {
			return 0, fail.New(fail.ArgError, "主分区 %d 不存在", scope)
		}
		for _, id := range root.ChildIDs {
			if leaf := d.areas[id]; matchName(name, leaf.Name, leaf.Pinyin, leaf.Initials) {
				return id, nil
			}
		}
	default:
		return 0, fail.New(fail.ArgError, "非法的检索范围 %d", scope)
	}
	return 0, fail.New(fail.NoResult, "没有找到分区 %q", name)
}

// ListNames 列出主分区下的所有子分区名，rootID 为 0 时列出所有主分区名
func (d *Directory) ListNames(rootID int) ([]string, *fail.Error) {
	if rootID == 0 {
		names := make([]string, 0, len(d.rootIDs))
		for _, id := range d.rootIDs {
			names = append(names, d.roots[id].Name)
		}
		return names, nil
	}
	root, ok := d.roots[rootID]
	if !ok {
		return nil, fail.New(fail.NoResult, "主分区 %d 不存在", rootID)
	}
	return append([]string(nil), root.ChildNames...), nil
}

func matchName(input, name, py, initials string) bool {
	return strings.Contains(name, input) || input == py || input == initials
}

var (
	pinyinArgs        = newPinyinArgs(pinyin.Normal)
	pinyinInitialArgs = newPinyinArgs(pinyin.FirstLetter)
)

func newPinyinArgs(style int) pinyin.Args {
	args := pinyin.NewArgs()
	args.Style = style
	// 非汉字字符 (英文/数字) 原样保留，与上游分区名里的英文一致
	args.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{strings.ToLower(string(r))}
	}
	return args
}

// Pinyin 将分区名转成小写拼音串，first 为 true 时只取每个字的首字母
func Pinyin(word string, first bool) string {
	args := pinyinArgs
	if first {
		args = pinyinInitialArgs
	}
	var b strings.Builder
	for _, candidates := range pinyin.Pinyin(word, args) {
		if len(candidates) > 0 {
			b.WriteString(candidates[0])
		}
	}
	return b.String()
}

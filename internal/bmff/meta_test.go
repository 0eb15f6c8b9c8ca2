package bmff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// fullBox wraps payload with a version/flags FullBox header.
func fullBox(version uint8, flags uint32, payload []byte) []byte {
	out := []byte{version, byte(flags >> 16), byte(flags >> 8), byte(flags)}
	return append(out, payload...)
}

func u16be(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

// buildInfe constructs a version-2 "infe" box for a coded image item.
func buildInfe(id uint16, itemType string) []byte {
	payload := fullBox(2, 0, append(u16be(id), 0, 0)) // item_id, protection_index
	payload = append(payload, []byte(itemType)...)
	payload = append(payload, 0) // item_name (empty cstring)
	return buildBox("infe", payload)
}

func buildIinf(entries ...[]byte) []byte {
	payload := fullBox(0, 0, u16be(uint16(len(entries))))
	for _, e := range entries {
		payload = append(payload, e...)
	}
	return buildBox("iinf", payload)
}

// buildIloc constructs a version-0 "iloc" box with one extent per item.
func buildIloc(items map[uint16][2]uint32) []byte {
	payload := fullBox(0, 0, []byte{0x44, 0x00}) // offsetSize=4, lengthSize=4, baseOffsetSize=0
	payload = append(payload, u16be(uint16(len(items)))...)
	for id, ext := range items {
		payload = append(payload, u16be(id)...)   // item_id
		payload = append(payload, u16be(0)...)    // data_reference_index
		payload = append(payload, u16be(1)...)    // extent_count
		payload = append(payload, u32be(ext[0])...)
		payload = append(payload, u32be(ext[1])...)
	}
	return buildBox("iloc", payload)
}

func buildPitm(id uint16) []byte {
	return buildBox("pitm", fullBox(0, 0, u16be(id)))
}

func buildIspe(w, h uint32) []byte {
	return buildBox("ispe", fullBox(0, 0, append(u32be(w), u32be(h)...)))
}

func buildIpco(props ...[]byte) []byte {
	var payload []byte
	for _, p := range props {
		payload = append(payload, p...)
	}
	return buildBox("ipco", payload)
}

// buildIpma constructs a version-0, non-large-index "ipma" box.
func buildIpma(groups map[uint16][]uint8) []byte {
	payload := fullBox(0, 0, u32be(uint32(len(groups))))
	for id, idxs := range groups {
		payload = append(payload, u16be(id)...)
		payload = append(payload, byte(len(idxs)))
		for _, idx := range idxs {
			payload = append(payload, idx) // not essential, small index
		}
	}
	return buildBox("ipma", payload)
}

func buildIprp(ipco, ipma []byte) []byte {
	return buildBox("iprp", append(ipco, ipma...))
}

func buildMeta(children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return fullBox(0, 0, payload)
}

func TestParseMetaAndBuildTableSimpleImage(t *testing.T) {
	ispe := buildIspe(64, 48)
	ipco := buildIpco(ispe)
	ipma := buildIpma(map[uint16][]uint8{1: {1}})
	iprp := buildIprp(ipco, ipma)

	meta := buildMeta(
		buildIinf(buildInfe(1, "av01")),
		buildIloc(map[uint16][2]uint32{1: {100, 200}}),
		iprp,
		buildPitm(1),
	)

	mb, err := ParseMeta(meta)
	require.NoError(t, err)
	require.True(t, mb.HasPrimary)
	require.Equal(t, uint32(1), mb.PrimaryItemID)

	table, err := BuildTable(mb)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	require.NoError(t, table.HarvestSpatialExtents(0, 0, true))

	it, ok := table.Get(1)
	require.True(t, ok)
	require.Equal(t, "av01", it.ItemType)
	require.Equal(t, uint32(64), it.Width)
	require.Equal(t, uint32(48), it.Height)
	require.False(t, it.ShouldSkip())
}

func TestBuildTableDuplicateIinfFails(t *testing.T) {
	meta := buildMeta(buildIinf(buildInfe(1, "av01"), buildInfe(1, "av01")))
	mb, err := ParseMeta(meta)
	require.NoError(t, err)

	_, err = BuildTable(mb)
	require.Error(t, err)
}

func TestBuildTableDuplicateIpmaGroupFails(t *testing.T) {
	ispe := buildIspe(8, 8)
	ipco := buildIpco(ispe)
	// Two groups for the same item id across the ipma box is a duplicate
	// entry, even though each declares only one association.
	payload := fullBox(0, 0, u32be(2))
	payload = append(payload, u16be(1)...)
	payload = append(payload, 1, 1)
	payload = append(payload, u16be(1)...)
	payload = append(payload, 1, 1)
	ipma := buildBox("ipma", payload)
	iprp := buildIprp(ipco, ipma)

	meta := buildMeta(buildIinf(buildInfe(1, "av01")), iprp)
	mb, err := ParseMeta(meta)
	require.NoError(t, err)

	_, err = BuildTable(mb)
	require.Error(t, err)
}

func TestBuildTableMultiplePropertiesInOneGroupIsNotDuplicate(t *testing.T) {
	ispe := buildIspe(8, 8)
	auxC := buildBox("auxC", fullBox(0, 0, append([]byte(AuxTypeAlphaMPEG), 0)))
	ipco := buildIpco(ispe, auxC)
	ipma := buildIpma(map[uint16][]uint8{1: {1, 2}})
	iprp := buildIprp(ipco, ipma)

	meta := buildMeta(buildIinf(buildInfe(1, "av01")), iprp)
	mb, err := ParseMeta(meta)
	require.NoError(t, err)

	table, err := BuildTable(mb)
	require.NoError(t, err)

	it, ok := table.Get(1)
	require.True(t, ok)
	require.Len(t, it.Properties, 2)

	// testify's ObjectsAreEqual falls back to reflect.DeepEqual for slices
	// of structs and reports only "not equal" on mismatch; cmp.Diff instead
	// pinpoints which field of which element diverged, which matters here
	// since an ItemProperty carries several mutually-exclusive payload
	// variants tagged by Kind.
	want := []ItemProperty{
		{Kind: PropImageSpatialExtents, ImageSpatialExtents: ImageSpatialExtents{Width: 8, Height: 8}},
		{Kind: PropAuxiliaryType, AuxiliaryType: AuxiliaryType{URN: AuxTypeAlphaMPEG}},
	}
	if diff := cmp.Diff(want, it.Properties, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

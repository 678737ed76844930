package holly

// Reg is the physical bus address of a 32-bit register.
type Reg uint32

// Registers gives access to the memory mapped register file. Accesses have no
// transactional semantics, each Load and Store is a single bus cycle.
type Registers interface {
	Load(r Reg) uint32
	Store(r Reg, v uint32)
}

// System bus interrupt controller.
const (
	sbBase Reg = 0x005f_6800

	IntrStatus     Reg = sbBase + 0x100 // SB_ISTNRM, write 1 to clear
	IntrMaskLevel2 Reg = sbBase + 0x120 // SB_IML2NRM
	IntrMaskLevel4 Reg = sbBase + 0x130 // SB_IML4NRM
	IntrMaskLevel6 Reg = sbBase + 0x140 // SB_IML6NRM
)

// PowerVR2 core registers.
const (
	pvrBase Reg = 0x005f_8000

	PVRID            Reg = pvrBase + 0x000
	PVRRevision      Reg = pvrBase + 0x004
	SoftReset        Reg = pvrBase + 0x008
	StartRender      Reg = pvrBase + 0x014
	ParamBase        Reg = pvrBase + 0x020 // command list used by the render pass
	RegionBase       Reg = pvrBase + 0x02c // tile descriptor table
	SpanSortCfg      Reg = pvrBase + 0x030
	BorderColor      Reg = pvrBase + 0x040
	FBDisplayCfg     Reg = pvrBase + 0x044 // FB_R_CTRL
	FBRenderCfg      Reg = pvrBase + 0x048 // FB_W_CTRL
	FBRenderModulo   Reg = pvrBase + 0x04c // FB_W_LINESTRIDE
	FBDisplayAddr1   Reg = pvrBase + 0x050 // FB_R_SOF1
	FBDisplayAddr2   Reg = pvrBase + 0x054 // FB_R_SOF2
	FBDisplaySize    Reg = pvrBase + 0x05c
	FBRenderAddr1    Reg = pvrBase + 0x060 // FB_W_SOF1
	FBRenderAddr2    Reg = pvrBase + 0x064 // FB_W_SOF2
	FBClipX          Reg = pvrBase + 0x068
	FBClipY          Reg = pvrBase + 0x06c
	ShadowScaling    Reg = pvrBase + 0x074
	PolygonCull      Reg = pvrBase + 0x078
	FPUParams        Reg = pvrBase + 0x07c
	PixelSample      Reg = pvrBase + 0x080
	PerpendicularTri Reg = pvrBase + 0x084
	BackgroundClip   Reg = pvrBase + 0x088 // ISP_BACKGND_D
	BackgroundInstr  Reg = pvrBase + 0x08c // ISP_BACKGND_T
	CacheSizes       Reg = pvrBase + 0x098 // ISP_FEED_CFG
	VRAMCfg1         Reg = pvrBase + 0x0a0
	VRAMCfg3         Reg = pvrBase + 0x0a8
	FogTableColor    Reg = pvrBase + 0x0b0
	FogVertexColor   Reg = pvrBase + 0x0b4
	FogDensity       Reg = pvrBase + 0x0b8
	ColorClampMax    Reg = pvrBase + 0x0bc
	ColorClampMin    Reg = pvrBase + 0x0c0
	HBlankIntr       Reg = pvrBase + 0x0c8
	VBlankIntr       Reg = pvrBase + 0x0cc // in-position bits 0-9, out-position 16-25
	SyncCfg          Reg = pvrBase + 0x0d0
	HBlank           Reg = pvrBase + 0x0d4
	SyncLoad         Reg = pvrBase + 0x0d8
	VBlank           Reg = pvrBase + 0x0dc
	TSPCfg           Reg = pvrBase + 0x0e4
	VideoCfg         Reg = pvrBase + 0x0e8
	HPos             Reg = pvrBase + 0x0ec
	VPos             Reg = pvrBase + 0x0f0
	Scaler           Reg = pvrBase + 0x0f4
	PaletteMode      Reg = pvrBase + 0x108
	SyncStat         Reg = pvrBase + 0x10c // current scanline in bits 0-9
	TAObjBufBase     Reg = pvrBase + 0x124
	TACmdListBase    Reg = pvrBase + 0x128
	TAObjBufLimit    Reg = pvrBase + 0x12c
	TACmdListLimit   Reg = pvrBase + 0x130
	TATileClip       Reg = pvrBase + 0x13c
	TABlockSize      Reg = pvrBase + 0x140
	TAConfirm        Reg = pvrBase + 0x144
	TAAdditionalOPB  Reg = pvrBase + 0x164

	PaletteRAM Reg = pvrBase + 0x1000
)

// ScanlineMask extracts the line number from SyncStat and VBlankIntr.
const ScanlineMask = 0x1ff

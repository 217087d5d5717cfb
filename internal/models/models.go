package models

import "time"

type Member struct {
	ID          string     `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"firstName"`
	LastName    string     `db:"last_name" json:"lastName"`
	BirthDate   *time.Time `db:"birth_date" json:"birthDate"`
	GdprVisible bool       `db:"gdpr_visible" json:"gdprVisible"`
	Notes       *string    `db:"notes" json:"notes"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type MemberNameHistory struct {
	ID              int        `db:"id" json:"id"`
	MemberID        string     `db:"member_id" json:"memberId"`
	FirstName       string     `db:"first_name" json:"firstName"`
	LastName        string     `db:"last_name" json:"lastName"`
	ValidFrom       *time.Time `db:"valid_from" json:"validFrom"`
	ValidTo         *time.Time `db:"valid_to" json:"validTo"`
	ChangeReason    *string    `db:"change_reason" json:"changeReason"`
	Source          *string    `db:"source" json:"source"`
	DisplayPriority int        `db:"display_priority" json:"displayPriority"`
	Notes           *string    `db:"notes" json:"notes"`
}

type MembershipPeriod struct {
	ID        int        `db:"id" json:"id"`
	MemberID  string     `db:"member_id" json:"memberId"`
	JoinDate  *time.Time `db:"join_date" json:"joinDate"`
	LeaveDate *time.Time `db:"leave_date" json:"leaveDate"`
	Status    *string    `db:"status" json:"status"`
	Notes     *string    `db:"notes" json:"notes"`
}

type Activity struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Type        string     `db:"type" json:"type"`
	StartDate   *time.Time `db:"start_date" json:"startDate"`
	EndDate     *time.Time `db:"end_date" json:"endDate"`
	Year        *int       `db:"year" json:"year"`
	Author      *string    `db:"author" json:"author"`
	Director    *string    `db:"director" json:"director"`
	Folder      *string    `db:"folder" json:"folder"`
	Description *string    `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type Location struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Address     *string `db:"address" json:"address"`
	City        *string `db:"city" json:"city"`
	Country     *string `db:"country" json:"country"`
	VenueType   *string `db:"venue_type" json:"venueType"`
	Coordinates *string `db:"coordinates" json:"coordinates"`
}

type Role struct {
	ID            int     `db:"id" json:"id"`
	ActivityID    string  `db:"activity_id" json:"activityId"`
	MemberID      string  `db:"member_id" json:"memberId"`
	RoleName      *string `db:"role_name" json:"roleName"`
	CharacterName *string `db:"character_name" json:"characterName"`
	RoleType      *string `db:"role_type" json:"roleType"`
	Notes         *string `db:"notes" json:"notes"`
}

type MediaType struct {
	Code        string  `db:"code" json:"code"`
	Description *string `db:"description" json:"description"`
}

type MediaItem struct {
	ID            int        `db:"id" json:"id"`
	ActivityID    string     `db:"activity_id" json:"activityId"`
	Filename      string     `db:"filename" json:"filename"`
	MediaType     string     `db:"media_type" json:"mediaType"`
	FileExtension *string    `db:"file_extension" json:"fileExtension"`
	StoragePath   *string    `db:"storage_path" json:"storagePath"`
	CaptureDate   *time.Time `db:"capture_date" json:"captureDate"`
	Caption       *string    `db:"caption" json:"caption"`
	Credit        *string    `db:"credit" json:"credit"`
	DisplayOrder  int        `db:"display_order" json:"displayOrder"`
}

type MediaAppearance struct {
	ID           int     `db:"id" json:"id"`
	MediaID      int     `db:"media_id" json:"mediaId"`
	MemberID     string  `db:"member_id" json:"memberId"`
	RoleID       *int    `db:"role_id" json:"roleId"`
	ActivityID   string  `db:"activity_id" json:"activityId"`
	Context      *string `db:"context" json:"context"`
	DisplayOrder int     `db:"display_order" json:"displayOrder"`
	Notes        *string `db:"notes" json:"notes"`
}

type MediaMention struct {
	ID          int        `db:"id" json:"id"`
	MentionDate *time.Time `db:"mention_date" json:"mentionDate"`
	Source      string     `db:"source" json:"source"`
	Title       string     `db:"title" json:"title"`
	URL         *string    `db:"url" json:"url"`
	MediaType   *string    `db:"media_type" json:"mediaType"`
	Description *string    `db:"description" json:"description"`
	Notes       *string    `db:"notes" json:"notes"`
}

type MentionMember struct {
	MentionID   int     `db:"mention_id" json:"mentionId"`
	MemberID    string  `db:"member_id" json:"memberId"`
	RoleContext *string `db:"role_context" json:"roleContext"`
	Notes       *string `db:"notes" json:"notes"`
}

type MentionActivity struct {
	MentionID  int     `db:"mention_id" json:"mentionId"`
	ActivityID string  `db:"activity_id" json:"activityId"`
	Relevance  *string `db:"relevance" json:"relevance"`
	Notes      *string `db:"notes" json:"notes"`
}

type MentionMediaItem struct {
	MentionID  int     `db:"mention_id" json:"mentionId"`
	MediaID    int     `db:"media_id" json:"mediaId"`
	PageNumber *int    `db:"page_number" json:"pageNumber"`
	Notes      *string `db:"notes" json:"notes"`
}

type ServerMetricSample struct {
	ID                string    `db:"id" json:"id"`
	CapturedAt        time.Time `db:"captured_at" json:"capturedAt"`
	HeapUsedBytes     int64     `db:"heap_used_bytes" json:"heapUsedBytes"`
	HeapMaxBytes      int64     `db:"heap_max_bytes" json:"heapMaxBytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes" json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes" json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes" json:"diskTotalBytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes" json:"diskUsedBytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load" json:"processCpuLoad"`
	SystemCpuLoad     float64   `db:"system_cpu_load" json:"systemCpuLoad"`
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/types"
)

// Job flag names
const (
	flagJobID            = "id"
	flagJobPage          = "page"
	flagJobPageSize      = "page-size"
	flagJobSuccess       = "success"
	flagJobType          = "type"
	flagJobSortBy        = "sort-by"
	flagJobSortDirection = "sort-direction"
)

// timeFormat is the layout job timestamps are printed with
const timeFormat = "2006-01-02 15:04:05"

// jobOutput represents the filtered output for a background job
type jobOutput struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	File     string `json:"file,omitempty"`
	Object   string `json:"object,omitempty"`
	Started  string `json:"started"`
	Finished string `json:"finished,omitempty"`
}

// jobListOutput represents the filtered output for a list of jobs
type jobListOutput struct {
	Jobs  []jobOutput `json:"jobs"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
}

// newJobOutput converts a job into its CLI representation
func newJobOutput(job models.BackgroundJob) jobOutput {
	out := jobOutput{
		ID:      job.ID,
		Type:    string(job.Type),
		Status:  "running",
		File:    job.FilePath,
		Started: job.Started.Format(timeFormat),
	}
	if job.ObjectID != "" {
		out.Object = fmt.Sprintf("%s/%s", job.ObjectType, job.ObjectID)
	}
	if job.Success != nil {
		if *job.Success {
			out.Status = "succeeded"
		} else {
			out.Status = "failed"
		}
	}
	if job.Finished != nil {
		out.Finished = job.Finished.Format(timeFormat)
	}
	return out
}

func init() {
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(completeJobCmd)

	// Add flags for get
	getJobCmd.Flags().StringP(flagJobID, "i", "", "Job ID")
	_ = getJobCmd.MarkFlagRequired(flagJobID)

	// Add flags for list
	listJobsCmd.Flags().IntP(flagJobPage, "p", 1, "Page number for pagination")
	listJobsCmd.Flags().Int(flagJobPageSize, 0, "Number of jobs per page")
	listJobsCmd.Flags().Bool(flagJobSuccess, false, "Filter by job outcome")
	listJobsCmd.Flags().StringP(flagJobType, "t", "", "Filter by job type (replicate, delete-replica)")
	listJobsCmd.Flags().String(flagJobSortBy, "", "Sort by field (success, type, started, finished)")
	listJobsCmd.Flags().Int(flagJobSortDirection, models.SortDescending, "Sort direction: 1 ascending, -1 descending")

	// Add flags for complete
	completeJobCmd.Flags().StringP(flagJobID, "i", "", "Job ID")
	completeJobCmd.Flags().Bool(flagJobSuccess, true, "Whether the job succeeded")
	_ = completeJobCmd.MarkFlagRequired(flagJobID)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage background jobs",
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific background job by its ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, err := cmd.Flags().GetString(flagJobID)
		if err != nil {
			return fmt.Errorf("error getting job ID flag: %w", err)
		}
		if jobID == "" {
			return fmt.Errorf("job ID cannot be empty")
		}

		orgID, err := getOrgID(cmd)
		if err != nil {
			return fmt.Errorf("error getting org: %w", err)
		}

		job, err := apiClient.GetJob(context.Background(), orgID.String(), jobID)
		if err != nil {
			return fmt.Errorf("error getting job: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(newJobOutput(job), "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List an organization's background jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		orgID, err := getOrgID(cmd)
		if err != nil {
			return fmt.Errorf("error getting org: %w", err)
		}

		page, err := cmd.Flags().GetInt(flagJobPage)
		if err != nil {
			return fmt.Errorf("error getting page flag: %w", err)
		}
		pageSize, _ := cmd.Flags().GetInt(flagJobPageSize)
		sortBy, _ := cmd.Flags().GetString(flagJobSortBy)
		sortDirection, _ := cmd.Flags().GetInt(flagJobSortDirection)

		opts := &models.ListOptions{
			Page:          page,
			PageSize:      pageSize,
			SortBy:        sortBy,
			SortDirection: sortDirection,
		}

		// The outcome filter is tri-state, only send it when requested
		if cmd.Flags().Changed(flagJobSuccess) {
			success, _ := cmd.Flags().GetBool(flagJobSuccess)
			opts.Success = &success
		}

		if jobType, _ := cmd.Flags().GetString(flagJobType); jobType != "" {
			parsed, err := models.ParseJobType(jobType)
			if err != nil {
				return fmt.Errorf("error parsing type flag: %w", err)
			}
			opts.JobType = parsed
		}

		jobs, err := apiClient.ListJobs(context.Background(), orgID.String(), opts)
		if err != nil {
			return fmt.Errorf("error listing jobs: %w", err)
		}

		output := jobListOutput{
			Jobs:  make([]jobOutput, len(jobs.Items)),
			Total: jobs.Total,
			Page:  jobs.Page,
		}
		for i, job := range jobs.Items {
			output.Jobs[i] = newJobOutput(job)
		}

		prettyJSON, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var completeJobCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record the outcome the orchestrator reported for a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, err := cmd.Flags().GetString(flagJobID)
		if err != nil {
			return fmt.Errorf("error getting job ID flag: %w", err)
		}
		if jobID == "" {
			return fmt.Errorf("job ID cannot be empty")
		}

		success, err := cmd.Flags().GetBool(flagJobSuccess)
		if err != nil {
			return fmt.Errorf("error getting success flag: %w", err)
		}

		orgID, err := getOrgID(cmd)
		if err != nil {
			return fmt.Errorf("error getting org: %w", err)
		}

		req := types.CompleteJobRequest{Success: &success}
		if err := apiClient.CompleteJob(context.Background(), orgID.String(), jobID, req); err != nil {
			return fmt.Errorf("error completing job: %w", err)
		}

		fmt.Printf("Job %s completion recorded\n", jobID)
		return nil
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
